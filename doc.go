// Package wasmengines builds WebAssembly execution engines from optional,
// independently produced compiler configurations.
//
// Two engine variants are provided. The JIT engine compiles modules to
// machine code held in memory. The Native engine additionally persists
// compiled artifacts to disk through a file-backed compilation cache, so
// already-compiled modules can later run without a compiler present.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	wasmengines/         Root package with the Engine interface and Variant
//	├── engine/          JIT and Native engine construction over wazero
//	├── compiler/        Compiler configuration capability and backends
//	├── opaque/          Opaque handle carrier for cross-boundary transfer
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Build a configured JIT engine and run a module:
//
//	cfg := compiler.NewMachine()
//	eng, err := engine.NewJIT(ctx, engine.WithCompiler(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	mod, err := eng.Compile(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	results, err := inst.Call(ctx, "add", 5, 3)
//
// # Opaque Handle Transfer
//
// When the configuration is produced by a separately loaded component, it
// cannot cross as a typed reference. The opaque package boxes a
// compiler.Config into a carrier whose Handle() is a plain integer safe to
// round-trip through an untyped channel:
//
//	carrier := opaque.Wrap(compiler.NewMachine())
//	h := carrier.Handle() // a plain uint64
//
//	// ... elsewhere, possibly in another component ...
//	eng, err := engine.NewJIT(ctx, engine.FromHandle(h))
//
// A handle carries no ownership. The resolved configuration is shared: it
// stays usable inside an engine even after the originating carrier is
// closed.
//
// # Headless Engines
//
// An engine built without a configuration is headless: it can execute
// precompiled artifacts via Load, but Compile fails with a headless error.
//
// # Thread Safety
//
// Engines and modules are safe for concurrent use. Instance is NOT
// thread-safe and should be used by a single goroutine, or access must be
// synchronized. Carriers and handles may be copied freely; the handle table
// is internally synchronized.
package wasmengines
