package opaque

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/wasm-engines/compiler"
	"github.com/wippyai/wasm-engines/errors"
)

func TestWrap_RoundTrip(t *testing.T) {
	cfg := compiler.NewInterpreter()
	carrier := Wrap(cfg)
	defer carrier.Close()

	resolved, err := Resolve(carrier.Handle())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// The resolved reference is the shared configuration, not a copy.
	if resolved != compiler.Config(cfg) {
		t.Errorf("resolved config differs from wrapped config")
	}
	if resolved.Name() != cfg.Name() {
		t.Errorf("resolved name = %q, want %q", resolved.Name(), cfg.Name())
	}
	if resolved.RuntimeConfig() == nil {
		t.Error("resolved config produces nil runtime config")
	}
}

func TestResolve_NullHandle(t *testing.T) {
	_, err := Resolve(0)
	if err == nil {
		t.Fatal("expected error for zero handle")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseTransfer, Kind: errors.KindNullHandle}) {
		t.Errorf("expected null_handle transfer error, got %v", err)
	}
}

func TestResolve_StaleHandle(t *testing.T) {
	carrier := Wrap(compiler.NewInterpreter())
	h := carrier.Handle()
	carrier.Close()

	_, err := Resolve(h)
	if err == nil {
		t.Fatal("expected error for closed carrier's handle")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseTransfer, Kind: errors.KindStaleHandle}) {
		t.Errorf("expected stale_handle transfer error, got %v", err)
	}
}

func TestResolve_UnknownHandle(t *testing.T) {
	// Never issued: slot index far beyond the table.
	_, err := Resolve(Handle(1<<32 | 0xfffffff))
	if err == nil {
		t.Fatal("expected error for unknown handle")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseTransfer, Kind: errors.KindStaleHandle}) {
		t.Errorf("expected stale_handle transfer error, got %v", err)
	}
}

func TestHandle_Idempotent(t *testing.T) {
	carrier := Wrap(compiler.NewInterpreter())
	defer carrier.Close()

	if carrier.Handle() != carrier.Handle() {
		t.Error("Handle() not stable across calls")
	}
	if carrier.Handle() == 0 {
		t.Error("live carrier has zero handle")
	}
	if carrier.OpaqueHandle() != carrier.Handle() {
		t.Error("OpaqueHandle() differs from Handle()")
	}
}

func TestHandle_Isolation(t *testing.T) {
	a := Wrap(compiler.NewInterpreter())
	defer a.Close()
	b := Wrap(compiler.NewInterpreter())
	defer b.Close()

	if a.Handle() == b.Handle() {
		t.Errorf("two live carriers share handle 0x%x", uint64(a.Handle()))
	}
}

func TestResolve_SurvivesCarrierClose(t *testing.T) {
	cfg := compiler.NewMachineWithOptions(compiler.Options{MemoryLimitPages: 64})
	carrier := Wrap(cfg)

	resolved, err := Resolve(carrier.Handle())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	carrier.Close()

	// The shared configuration must remain fully usable after the
	// originating carrier is gone.
	if resolved.Name() != "machine" {
		t.Errorf("resolved name = %q after close", resolved.Name())
	}
	if resolved.RuntimeConfig() == nil {
		t.Error("resolved config unusable after carrier close")
	}
}

func TestSlotReuse_DoesNotAliasOldHandle(t *testing.T) {
	first := Wrap(compiler.NewInterpreter())
	h := first.Handle()
	first.Close()

	// The freed slot is reused, but under a new generation.
	second := Wrap(compiler.NewMachine())
	defer second.Close()

	if _, err := Resolve(h); err == nil {
		t.Fatal("stale handle resolved against a reused slot")
	}

	resolved, err := Resolve(second.Handle())
	if err != nil {
		t.Fatalf("resolve reused slot: %v", err)
	}
	if resolved.Name() != "machine" {
		t.Errorf("reused slot resolved to %q, want %q", resolved.Name(), "machine")
	}
}

func TestClose_Idempotent(t *testing.T) {
	before := table.liveCount()

	carrier := Wrap(compiler.NewInterpreter())
	carrier.Close()
	carrier.Close()
	carrier.Close()

	if got := table.liveCount(); got != before {
		t.Errorf("live registrations = %d, want %d", got, before)
	}
}

func TestWrap_NilConfig(t *testing.T) {
	// Wrap never fails; the nil is surfaced at resolve time instead.
	carrier := Wrap(nil)
	defer carrier.Close()

	_, err := Resolve(carrier.Handle())
	if err == nil {
		t.Fatal("expected error resolving nil configuration")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseTransfer, Kind: errors.KindInvalidInput}) {
		t.Errorf("expected invalid_input transfer error, got %v", err)
	}
}

func TestResolve_ConfigDrivesRealRuntime(t *testing.T) {
	// End-to-end sanity: a resolved config can actually stand up a
	// runtime through wazero.
	ctx := context.Background()

	carrier := Wrap(compiler.NewInterpreter())
	defer carrier.Close()

	resolved, err := Resolve(carrier.Handle())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	r := wazero.NewRuntimeWithConfig(ctx, resolved.RuntimeConfig())
	if err := r.Close(ctx); err != nil {
		t.Fatalf("close runtime: %v", err)
	}
}
