package wasmengines

import "context"

// Variant identifies an engine kind.
type Variant uint8

const (
	// VariantJIT compiles modules to machine code published in memory.
	VariantJIT Variant = iota + 1
	// VariantNative persists compiled artifacts to disk and loads them back.
	VariantNative
)

func (v Variant) String() string {
	switch v {
	case VariantJIT:
		return "jit"
	case VariantNative:
		return "native"
	default:
		return "unknown"
	}
}

// Engine is the construction-time surface shared by both engine variants.
// The full compile/load API lives on the concrete types in the engine
// package; this interface captures what every engine must answer.
type Engine interface {
	// Variant reports the engine kind.
	Variant() Variant

	// Headless reports whether the engine was built without a compiler
	// configuration. A headless engine can execute precompiled artifacts
	// but refuses to compile new source.
	Headless() bool

	// Close releases the engine and everything compiled into it.
	Close(ctx context.Context) error
}
