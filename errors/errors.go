package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in engine construction the error occurred
type Phase string

const (
	PhaseTransfer Phase = "transfer" // opaque handle resolution
	PhaseBuild    Phase = "build"    // engine construction
	PhaseCompile  Phase = "compile"  // module compilation
	PhaseLoad     Phase = "load"     // artifact loading
	PhaseRun      Phase = "run"      // instantiation and calls
)

// Kind categorizes the error
type Kind string

const (
	KindNullHandle      Kind = "null_handle"
	KindStaleHandle     Kind = "stale_handle"
	KindHeadless        Kind = "headless"
	KindBackend         Kind = "backend"
	KindInvalidInput    Kind = "invalid_input"
	KindInvalidArtifact Kind = "invalid_artifact"
	KindNotFound        Kind = "not_found"
	KindClosed          Kind = "closed"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Handle uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		fmt.Fprintf(&b, " handle=0x%x", e.Handle)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Handle sets the offending handle value
func (b *Builder) Handle(h uint64) *Builder {
	b.err.Handle = h
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NullHandle creates the error for resolving a zero handle.
// The message matches the cross-component protocol contract.
func NullHandle() *Error {
	return &Error{
		Phase:  PhaseTransfer,
		Kind:   KindNullHandle,
		Detail: "failed to transfer the opaque compiler from the compiler",
	}
}

// StaleHandle creates the error for a non-zero handle whose carrier is gone
// or whose slot has been reused since the handle was issued.
func StaleHandle(h uint64) *Error {
	return &Error{
		Phase:  PhaseTransfer,
		Kind:   KindStaleHandle,
		Handle: h,
		Detail: "opaque compiler handle does not reference a live carrier",
	}
}

// Headless creates the error for asking a headless engine to compile
func Headless(variant string) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindHeadless,
		Detail: fmt.Sprintf("headless %s engine cannot compile new source", variant),
	}
}

// Backend wraps a failure from the underlying compiler/engine library
func Backend(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBackend,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidArtifact creates an error for a malformed artifact envelope
func InvalidArtifact(detail string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidArtifact,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Closed creates an error for using a closed object
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}
