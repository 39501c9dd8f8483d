package engine

import (
	"context"

	"github.com/tetratelabs/wazero"

	wasmengines "github.com/wippyai/wasm-engines"
	"github.com/wippyai/wasm-engines/compiler"
)

// JIT is the in-memory engine. Compiled machine code is published into
// process memory and released when the engine closes; nothing touches
// disk.
//
// Built headless, a JIT engine can Load and execute artifacts but refuses
// to Compile.
type JIT struct {
	base  *base
	cache wazero.CompilationCache
}

// NewJIT constructs a JIT engine from the given source. On any failure no
// engine is returned and nothing is left allocated.
func NewJIT(ctx context.Context, src Source) (*JIT, error) {
	cache := wazero.NewCompilationCache()

	b, err := newBase(ctx, wasmengines.VariantJIT, src, cache)
	if err != nil {
		_ = cache.Close(ctx)
		return nil, err
	}

	return &JIT{base: b, cache: cache}, nil
}

// Variant reports wasmengines.VariantJIT.
func (e *JIT) Variant() wasmengines.Variant { return e.base.Variant() }

// Headless reports whether the engine has no compiler configuration.
func (e *JIT) Headless() bool { return e.base.Headless() }

// Compiler returns the engine's shared compiler configuration, or nil when
// headless.
func (e *JIT) Compiler() compiler.Config { return e.base.Compiler() }

// Compile compiles wasm source into a runnable Module. Fails with a
// headless error if the engine has no compiler configuration.
func (e *JIT) Compile(ctx context.Context, wasm []byte) (*Module, error) {
	return e.base.compile(ctx, wasm)
}

// Load instantiates a precompiled artifact produced by Module.Serialize.
// Works on headless engines.
func (e *JIT) Load(ctx context.Context, artifact []byte) (*Module, error) {
	return e.base.load(ctx, artifact)
}

// Close releases the engine, its compiled code and its cache.
// All instances must be closed before calling this.
func (e *JIT) Close(ctx context.Context) error {
	err := e.base.close(ctx)
	if cerr := e.cache.Close(ctx); err == nil {
		err = cerr
	}
	return err
}

// Compile-time check that JIT satisfies the root Engine interface
var _ wasmengines.Engine = (*JIT)(nil)
