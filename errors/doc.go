// Package errors provides structured error types for the wasm-engines library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the offending handle value where one is
// involved, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBuild, errors.KindInvalidInput).
//		Detail("nil compiler configuration").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NullHandle()
//	err := errors.Headless("native")
//	err := errors.Backend(errors.PhaseCompile, "compile module", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind, so callers can classify failures without
// string comparison:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseTransfer, Kind: errors.KindNullHandle}) {
//	    // handle was zero
//	}
package errors
