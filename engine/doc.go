// Package engine constructs WebAssembly execution engines over wazero.
//
// # Variants
//
// Two engine kinds are provided:
//
//	JIT    - compiled machine code is published into memory and lives only
//	         as long as the engine
//	Native - compiled machine code is additionally persisted through a
//	         file-backed compilation cache in a work directory, and
//	         compiled modules can be saved as portable artifacts
//
// # Sources
//
// Every constructor takes a Source describing where the compiler
// configuration comes from:
//
//	engine.Headless()            no compiler; execute-only engine
//	engine.WithCompiler(cfg)     direct, same-component configuration
//	engine.FromHandle(h)         resolve an opaque handle from another component
//	engine.FromProvider(p)       ask a HandleProvider for its handle first
//
// Handle resolution failures propagate unchanged from the opaque package;
// no engine is constructed on any error.
//
// # Headless Engines
//
// An engine built from Headless() can Load and run precompiled artifacts
// but refuses Compile with a headless error. That failure is returned, not
// panicked: a headless engine asked to compile is an expected condition.
//
// # Construction Atomicity
//
// Constructors either return a fully usable engine or an error; a partially
// built engine is never observable. On failure any runtime or cache already
// created is closed before returning.
package engine
