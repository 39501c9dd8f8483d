package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	wasmengines "github.com/wippyai/wasm-engines"
	"github.com/wippyai/wasm-engines/compiler"
	"github.com/wippyai/wasm-engines/errors"
)

// Native is the ahead-of-time engine. Machine code generated during
// Compile is persisted through a file-backed compilation cache under the
// engine's work directory, and every compiled module is written out as a
// portable artifact next to it.
//
// Built headless, a Native engine can Load and execute artifacts but
// refuses to Compile.
type Native struct {
	base    *base
	cache   wazero.CompilationCache
	workDir string
	ownsDir bool
}

// NativeOption configures Native engine construction.
type NativeOption func(*nativeOptions)

type nativeOptions struct {
	workDir string
}

// WithWorkDir places the compilation cache and artifacts under dir instead
// of a temporary directory. The directory is created if missing and is not
// removed on Close.
func WithWorkDir(dir string) NativeOption {
	return func(o *nativeOptions) {
		o.workDir = dir
	}
}

// NewNative constructs a Native engine from the given source. Without
// WithWorkDir a temporary directory is created and removed again on Close,
// so artifacts are, by default, as transient as the engine itself.
func NewNative(ctx context.Context, src Source, opts ...NativeOption) (*Native, error) {
	var o nativeOptions
	for _, opt := range opts {
		opt(&o)
	}

	dir := o.workDir
	ownsDir := false
	if dir == "" {
		tmp, err := os.MkdirTemp("", "wasm-engines-native-")
		if err != nil {
			return nil, errors.Backend(errors.PhaseBuild, "create work directory", err)
		}
		dir = tmp
		ownsDir = true
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Backend(errors.PhaseBuild, "create work directory", err)
	}

	fail := func(err error) (*Native, error) {
		if ownsDir {
			_ = os.RemoveAll(dir)
		}
		return nil, err
	}

	// Headless native engines run the interpreter; a code cache would
	// never be written, so only configured engines get one.
	var cache wazero.CompilationCache
	if !src.Headless() {
		var err error
		cache, err = wazero.NewCompilationCacheWithDir(filepath.Join(dir, "cache"))
		if err != nil {
			return fail(errors.Backend(errors.PhaseBuild, "open compilation cache", err))
		}
	}

	b, err := newBase(ctx, wasmengines.VariantNative, src, cache)
	if err != nil {
		if cache != nil {
			_ = cache.Close(ctx)
		}
		return fail(err)
	}

	return &Native{
		base:    b,
		cache:   cache,
		workDir: dir,
		ownsDir: ownsDir,
	}, nil
}

// WorkDir returns the directory holding the compilation cache and
// artifacts.
func (e *Native) WorkDir() string { return e.workDir }

// Variant reports wasmengines.VariantNative.
func (e *Native) Variant() wasmengines.Variant { return e.base.Variant() }

// Headless reports whether the engine has no compiler configuration.
func (e *Native) Headless() bool { return e.base.Headless() }

// Compiler returns the engine's shared compiler configuration, or nil when
// headless.
func (e *Native) Compiler() compiler.Config { return e.base.Compiler() }

// Compile compiles wasm source, persists the machine code through the
// engine's cache directory, and writes the module's artifact file into the
// work directory. Fails with a headless error if the engine has no
// compiler configuration.
func (e *Native) Compile(ctx context.Context, wasm []byte) (*Module, error) {
	mod, err := e.base.compile(ctx, wasm)
	if err != nil {
		return nil, err
	}

	path := e.artifactPath(wasm)
	if err := os.WriteFile(path, mod.Serialize(), 0o644); err != nil {
		_ = mod.Close(ctx)
		return nil, errors.Backend(errors.PhaseCompile, "write artifact", err)
	}
	mod.artifactPath = path

	Logger().Debug("wrote native artifact",
		zap.String("path", path),
		zap.Int("module_bytes", len(wasm)))

	return mod, nil
}

// Load instantiates a precompiled artifact produced by Module.Serialize.
// Works on headless engines.
func (e *Native) Load(ctx context.Context, artifact []byte) (*Module, error) {
	return e.base.load(ctx, artifact)
}

// LoadArtifactFile reads an artifact from disk and loads it.
func (e *Native) LoadArtifactFile(ctx context.Context, path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Backend(errors.PhaseLoad, fmt.Sprintf("read artifact %s", path), err)
	}
	mod, err := e.Load(ctx, data)
	if err != nil {
		return nil, err
	}
	mod.artifactPath = path
	return mod, nil
}

// Close releases the engine and its cache. If the engine created its own
// temporary work directory, the directory and everything in it is removed.
func (e *Native) Close(ctx context.Context) error {
	err := e.base.close(ctx)
	if e.cache != nil {
		if cerr := e.cache.Close(ctx); err == nil {
			err = cerr
		}
		e.cache = nil
	}
	if e.ownsDir {
		if rerr := os.RemoveAll(e.workDir); err == nil {
			err = rerr
		}
	}
	return err
}

// artifactPath names an artifact after the module's content hash, so
// recompiling identical source overwrites rather than accumulates.
func (e *Native) artifactPath(wasm []byte) string {
	sum := sha256.Sum256(wasm)
	return filepath.Join(e.workDir, hex.EncodeToString(sum[:8])+".cwasm")
}

// Compile-time check that Native satisfies the root Engine interface
var _ wasmengines.Engine = (*Native)(nil)
