package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	wasmengines "github.com/wippyai/wasm-engines"
	"github.com/wippyai/wasm-engines/compiler"
	"github.com/wippyai/wasm-engines/errors"
)

// base carries what both engine variants share: a wazero runtime, the
// resolved compiler configuration (nil when headless), and the variant tag.
type base struct {
	runtime wazero.Runtime
	cfg     compiler.Config
	variant wasmengines.Variant
}

// newBase resolves the source and stands up the runtime. Headless engines
// run on the interpreter: they execute precompiled artifacts without any
// code generation of their own.
func newBase(ctx context.Context, variant wasmengines.Variant, src Source, cache wazero.CompilationCache) (*base, error) {
	cfg, err := src.resolve()
	if err != nil {
		return nil, err
	}

	var rc wazero.RuntimeConfig
	backend := "headless"
	if cfg == nil {
		rc = wazero.NewRuntimeConfigInterpreter()
	} else {
		rc = cfg.RuntimeConfig()
		if rc == nil {
			return nil, errors.InvalidInput(errors.PhaseBuild, "compiler configuration produced a nil runtime config")
		}
		backend = cfg.Name()
	}
	if cache != nil {
		rc = rc.WithCompilationCache(cache)
	}

	Logger().Debug("constructing engine",
		zap.Stringer("variant", variant),
		zap.String("backend", backend))

	return &base{
		runtime: wazero.NewRuntimeWithConfig(ctx, rc),
		cfg:     cfg,
		variant: variant,
	}, nil
}

// Variant reports the engine kind.
func (e *base) Variant() wasmengines.Variant {
	return e.variant
}

// Headless reports whether the engine was built without a compiler
// configuration.
func (e *base) Headless() bool {
	return e.cfg == nil
}

// Compiler returns the engine's compiler configuration, or nil when
// headless. The returned value is the shared configuration resolved at
// construction time; it stays valid even after the carrier that
// transferred it is closed.
func (e *base) Compiler() compiler.Config {
	return e.cfg
}

// compile turns wasm source into a Module. Headless engines refuse.
func (e *base) compile(ctx context.Context, wasm []byte) (*Module, error) {
	if e.cfg == nil {
		return nil, errors.Headless(e.variant.String())
	}
	if len(wasm) == 0 {
		return nil, errors.InvalidInput(errors.PhaseCompile, "empty module")
	}

	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Backend(errors.PhaseCompile, "compile module", err)
	}

	return &Module{
		runtime:  e.runtime,
		compiled: compiled,
		raw:      wasm,
		variant:  e.variant,
	}, nil
}

// load instantiates a precompiled artifact. Available on headless engines:
// the artifact's module was compiled elsewhere, this engine only executes
// it.
func (e *base) load(ctx context.Context, artifact []byte) (*Module, error) {
	_, wasm, err := decodeArtifact(artifact)
	if err != nil {
		return nil, err
	}

	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Backend(errors.PhaseLoad, "load artifact", err)
	}

	return &Module{
		runtime:  e.runtime,
		compiled: compiled,
		raw:      wasm,
		variant:  e.variant,
	}, nil
}

func (e *base) close(ctx context.Context) error {
	if e.runtime == nil {
		return nil
	}
	err := e.runtime.Close(ctx)
	e.runtime = nil
	return err
}
