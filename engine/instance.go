package engine

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-engines/errors"
)

// Instance is a running module instance.
// It is NOT safe for concurrent use from multiple goroutines.
// Each goroutine should have its own Instance, or access must be
// synchronized externally.
type Instance struct {
	module    *Module
	instance  api.Module
	funcCache map[string]api.Function
}

// ExportedFunction returns an exported function by name, or nil if the
// module exports no function under that name.
func (i *Instance) ExportedFunction(name string) api.Function {
	if i.instance == nil {
		return nil
	}
	fn, ok := i.funcCache[name]
	if !ok {
		fn = i.instance.ExportedFunction(name)
		i.funcCache[name] = fn
	}
	return fn
}

// Call invokes an exported function with raw wasm parameters and returns
// its raw results. Use api.EncodeF64 and friends for float parameters.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	if i.instance == nil {
		return nil, errors.Closed(errors.PhaseRun, "instance")
	}

	fn := i.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRun, "function", name)
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Backend(errors.PhaseRun, "call "+name, err)
	}
	return results, nil
}

// Memory returns the instance's linear memory, or nil if the module
// exports none.
func (i *Instance) Memory() api.Memory {
	if i.instance == nil {
		return nil
	}
	return i.instance.Memory()
}

// Module returns the compiled module this instance was created from.
func (i *Instance) Module() *Module {
	return i.module
}

// Close releases the instance and its linear memory.
func (i *Instance) Close(ctx context.Context) error {
	if i.instance == nil {
		return nil
	}
	err := i.instance.Close(ctx)
	i.instance = nil
	i.funcCache = nil
	return err
}
