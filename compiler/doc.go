// Package compiler defines the compiler-configuration capability consumed by
// the engine package, plus the concrete backends shipped with the library.
//
// A Config answers one question: how should an engine turn WebAssembly into
// executable form. Engines never inspect a Config beyond calling
// RuntimeConfig, so alternative backends can be supplied from outside the
// library as long as they satisfy the interface.
//
// Two backends are provided:
//
//	Machine     - compiles modules to native machine code (amd64/arm64)
//	Interpreter - portable, compiles nothing, runs everywhere
//
// Configs are immutable after construction and safe to share between
// engines and across the opaque handle boundary.
package compiler
