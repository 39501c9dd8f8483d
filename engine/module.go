package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	wasmengines "github.com/wippyai/wasm-engines"
	"github.com/wippyai/wasm-engines/errors"
)

// Module is a compiled WebAssembly module bound to the engine that
// compiled or loaded it. Safe for concurrent use; Instantiate may be
// called from multiple goroutines.
type Module struct {
	runtime      wazero.Runtime
	compiled     wazero.CompiledModule
	raw          []byte
	variant      wasmengines.Variant
	artifactPath string
}

// Instantiate creates a fresh, anonymous instance of the module.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	if m.compiled == nil {
		return nil, errors.Closed(errors.PhaseRun, "module")
	}

	// Anonymous name allows parallel instantiation within one runtime.
	inst, err := m.runtime.InstantiateModule(ctx, m.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.Backend(errors.PhaseRun, "instantiate module", err)
	}

	return &Instance{
		module:    m,
		instance:  inst,
		funcCache: make(map[string]api.Function),
	}, nil
}

// ExportedFunctions returns the module's exported function definitions,
// keyed by export name.
func (m *Module) ExportedFunctions() map[string]api.FunctionDefinition {
	if m.compiled == nil {
		return nil
	}
	return m.compiled.ExportedFunctions()
}

// Serialize wraps the module in the portable artifact envelope. The result
// can be loaded by any engine, including headless ones.
func (m *Module) Serialize() []byte {
	return encodeArtifact(m.variant, m.raw)
}

// ArtifactPath returns the on-disk artifact written for this module, or ""
// for modules that were never persisted (JIT modules, or natives loaded
// from bytes).
func (m *Module) ArtifactPath() string {
	return m.artifactPath
}

// Close releases the compiled module. Instances created from it must be
// closed separately.
func (m *Module) Close(ctx context.Context) error {
	if m.compiled == nil {
		return nil
	}
	err := m.compiled.Close(ctx)
	m.compiled = nil
	return err
}
