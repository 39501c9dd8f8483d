package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "phase and kind only",
			err:  &Error{Phase: PhaseBuild, Kind: KindBackend},
			want: "[build] backend",
		},
		{
			name: "with detail",
			err:  &Error{Phase: PhaseCompile, Kind: KindHeadless, Detail: "headless jit engine cannot compile new source"},
			want: "[compile] headless: headless jit engine cannot compile new source",
		},
		{
			name: "with handle",
			err:  &Error{Phase: PhaseTransfer, Kind: KindStaleHandle, Handle: 0x1f, Detail: "gone"},
			want: "[transfer] stale_handle handle=0x1f: gone",
		},
		{
			name: "with cause",
			err:  &Error{Phase: PhaseLoad, Kind: KindBackend, Detail: "load artifact", Cause: fmt.Errorf("disk full")},
			want: "[load] backend: load artifact (caused by: disk full)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := NullHandle()

	if !stderrors.Is(err, &Error{Phase: PhaseTransfer, Kind: KindNullHandle}) {
		t.Error("expected match on same phase and kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseTransfer, Kind: KindStaleHandle}) {
		t.Error("expected no match on different kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseBuild, Kind: KindNullHandle}) {
		t.Error("expected no match on different phase")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Backend(PhaseCompile, "compile module", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}

	var structured *Error
	if !stderrors.As(err, &structured) {
		t.Fatal("expected errors.As to find *Error")
	}
	if structured.Kind != KindBackend {
		t.Errorf("Kind = %q, want %q", structured.Kind, KindBackend)
	}
}

func TestBuilder(t *testing.T) {
	cause := fmt.Errorf("bad byte")
	err := New(PhaseLoad, KindInvalidArtifact).
		Handle(42).
		Detail("truncated at byte %d", 7).
		Cause(cause).
		Build()

	if err.Phase != PhaseLoad || err.Kind != KindInvalidArtifact {
		t.Errorf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if err.Handle != 42 {
		t.Errorf("Handle = %d, want 42", err.Handle)
	}
	if err.Detail != "truncated at byte 7" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Cause != cause {
		t.Error("cause not preserved")
	}
}

func TestNullHandle_Message(t *testing.T) {
	// The message is part of the cross-component protocol surface.
	if !strings.Contains(NullHandle().Error(), "failed to transfer the opaque compiler from the compiler") {
		t.Errorf("unexpected message: %s", NullHandle().Error())
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if got := StaleHandle(9).Handle; got != 9 {
		t.Errorf("StaleHandle handle = %d, want 9", got)
	}
	if got := Headless("native").Error(); !strings.Contains(got, "headless native engine") {
		t.Errorf("Headless message = %q", got)
	}
	if got := NotFound(PhaseRun, "function", "add").Error(); !strings.Contains(got, `function "add" not found`) {
		t.Errorf("NotFound message = %q", got)
	}
	if got := Closed(PhaseRun, "instance").Error(); !strings.Contains(got, "instance is closed") {
		t.Errorf("Closed message = %q", got)
	}
}
