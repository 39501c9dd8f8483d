package compiler

import (
	"testing"
)

func TestBackendNames(t *testing.T) {
	if got := NewMachine().Name(); got != "machine" {
		t.Errorf("Machine name = %q, want %q", got, "machine")
	}
	if got := NewInterpreter().Name(); got != "interpreter" {
		t.Errorf("Interpreter name = %q, want %q", got, "interpreter")
	}
}

func TestRuntimeConfig_Fresh(t *testing.T) {
	cfg := NewInterpreter()

	a := cfg.RuntimeConfig()
	b := cfg.RuntimeConfig()
	if a == nil || b == nil {
		t.Fatal("RuntimeConfig returned nil")
	}
	// Each call must produce an independent value engines can mutate
	// without affecting earlier ones.
	a = a.WithMemoryLimitPages(16)
	if a == nil || b == nil {
		t.Fatal("mutated config is nil")
	}
}

func TestOptions_Applied(t *testing.T) {
	cfg := NewInterpreterWithOptions(Options{
		MemoryLimitPages:   256,
		CloseOnContextDone: true,
	})
	if cfg.RuntimeConfig() == nil {
		t.Fatal("RuntimeConfig returned nil")
	}
}
