package opaque

import (
	"sync"

	"github.com/wippyai/wasm-engines/compiler"
	"github.com/wippyai/wasm-engines/errors"
)

// Handle is a type-erased, ownership-agnostic reference to a wrapped
// compiler configuration. It is a plain integer: copy it, store it, pass it
// through channels that only carry scalars. The zero value never refers to
// a live carrier.
//
// Layout: low 32 bits hold the table slot (index+1), high 32 bits hold the
// slot's generation at wrap time. The generation lets Resolve reject
// handles that outlived their carrier even after the slot is reused.
type Handle uint64

func packHandle(idx uint32, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(idx+1))
}

func (h Handle) slot() (idx uint32, gen uint32) {
	return uint32(h) - 1, uint32(h >> 32)
}

// HandleProvider is the well-known cross-component contract: anything that
// can produce an opaque compiler handle. The carrier itself satisfies it,
// as do producer-side binding layers that construct carriers on demand.
type HandleProvider interface {
	OpaqueHandle() Handle
}

// Compiler is the opaque handle carrier. It owns one registered compiler
// configuration and exposes it as an integer handle.
//
// A Compiler is bound to the table entry it was created with: closing it
// invalidates the handle, but configurations already resolved from the
// handle stay usable for as long as their holders keep them.
type Compiler struct {
	cfg       compiler.Config
	handle    Handle
	closeOnce sync.Once
}

// Wrap boxes cfg into a fresh carrier and registers it in the process-wide
// handle table. It never fails; a nil cfg is rejected later, at resolve
// time, rather than here, to keep Wrap infallible.
func Wrap(cfg compiler.Config) *Compiler {
	return &Compiler{
		cfg:    cfg,
		handle: table.insert(cfg),
	}
}

// Handle returns the carrier's integer handle. Pure accessor: calling it
// any number of times on a live carrier returns the same value, and it
// never affects the registration.
func (c *Compiler) Handle() Handle {
	return c.handle
}

// OpaqueHandle implements HandleProvider.
func (c *Compiler) OpaqueHandle() Handle {
	return c.handle
}

// Config returns the wrapped configuration directly. Producer-side
// convenience; consumers on the far side of the boundary go through
// Resolve instead.
func (c *Compiler) Config() compiler.Config {
	return c.cfg
}

// Close drops the carrier's table entry, invalidating the handle.
// Idempotent. Configurations resolved before Close remain valid.
func (c *Compiler) Close() {
	c.closeOnce.Do(func() {
		table.remove(c.handle)
	})
}

// Resolve turns a handle back into the shared compiler configuration.
//
// A zero handle fails with a null_handle transfer error. A non-zero handle
// that does not reference a live carrier (never issued, or carrier closed)
// fails with a stale_handle transfer error. On success the returned Config
// is the same shared value the producer wrapped; no ownership moves.
func Resolve(h Handle) (compiler.Config, error) {
	if h == 0 {
		return nil, errors.NullHandle()
	}

	cfg, ok := table.lookup(h)
	if !ok {
		return nil, errors.StaleHandle(uint64(h))
	}
	if cfg == nil {
		return nil, errors.InvalidInput(errors.PhaseTransfer, "carrier wraps a nil compiler configuration")
	}
	return cfg, nil
}
