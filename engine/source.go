package engine

import (
	"github.com/wippyai/wasm-engines/compiler"
	"github.com/wippyai/wasm-engines/errors"
	"github.com/wippyai/wasm-engines/opaque"
)

// Source describes where an engine's compiler configuration comes from.
// It is a closed sum: headless, a direct configuration, an opaque handle,
// or a handle provider. The zero Source is headless.
type Source struct {
	kind     sourceKind
	cfg      compiler.Config
	handle   opaque.Handle
	provider opaque.HandleProvider
}

type sourceKind int

const (
	sourceHeadless sourceKind = iota
	sourceConfig
	sourceHandle
	sourceProvider
)

// Headless requests an engine without a compiler. The engine can execute
// precompiled artifacts but cannot compile new source.
func Headless() Source {
	return Source{kind: sourceHeadless}
}

// WithCompiler requests an engine configured with cfg directly. Use this
// when producer and consumer live in the same component and no handle
// transfer is needed.
func WithCompiler(cfg compiler.Config) Source {
	return Source{kind: sourceConfig, cfg: cfg}
}

// FromHandle requests an engine configured by resolving an opaque handle
// at construction time. Resolution failures abort construction and
// propagate unchanged from opaque.Resolve.
func FromHandle(h opaque.Handle) Source {
	return Source{kind: sourceHandle, handle: h}
}

// FromProvider requests an engine configured by first asking p for its
// handle, then resolving it. This is the consumer half of the well-known
// method contract between the configuration producer and this package.
func FromProvider(p opaque.HandleProvider) Source {
	return Source{kind: sourceProvider, provider: p}
}

// resolve produces the compiler configuration for this source.
// A nil Config with nil error means headless.
func (s Source) resolve() (compiler.Config, error) {
	switch s.kind {
	case sourceHeadless:
		return nil, nil
	case sourceConfig:
		if s.cfg == nil {
			return nil, errors.InvalidInput(errors.PhaseBuild, "nil compiler configuration")
		}
		return s.cfg, nil
	case sourceHandle:
		return opaque.Resolve(s.handle)
	case sourceProvider:
		if s.provider == nil {
			return nil, errors.InvalidInput(errors.PhaseBuild, "nil handle provider")
		}
		return opaque.Resolve(s.provider.OpaqueHandle())
	default:
		return nil, errors.InvalidInput(errors.PhaseBuild, "unknown source kind")
	}
}

// Headless reports whether the source requests a headless engine.
func (s Source) Headless() bool {
	return s.kind == sourceHeadless
}
