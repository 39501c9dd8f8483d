package compiler

import (
	"github.com/tetratelabs/wazero"
)

// Config is the compiler-configuration capability. Implementations produce
// the wazero runtime configuration an engine builds on.
//
// Implementations must be safe to share: a Config may be held by several
// engines at once, and may outlive the carrier that transferred it.
type Config interface {
	// Name identifies the backend, for logs and CLI output.
	Name() string

	// RuntimeConfig produces a fresh wazero runtime configuration for this
	// backend. Each call returns an independent value; engines may mutate
	// the result with further options.
	RuntimeConfig() wazero.RuntimeConfig
}

// Options are the backend-independent knobs shared by the shipped configs.
type Options struct {
	// MemoryLimitPages caps linear memory per instance in 64KB pages.
	// 0 means the wazero default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// CloseOnContextDone makes in-flight calls respect context
	// cancellation and deadlines.
	CloseOnContextDone bool
}

func (o Options) apply(cfg wazero.RuntimeConfig) wazero.RuntimeConfig {
	if o.MemoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(o.MemoryLimitPages)
	}
	if o.CloseOnContextDone {
		cfg = cfg.WithCloseOnContextDone(true)
	}
	return cfg
}

// Machine compiles modules to native machine code ahead of execution.
// It is the fastest backend but only available on supported architectures
// (amd64 and arm64).
type Machine struct {
	opts Options
}

// NewMachine creates a machine-code compiler configuration.
func NewMachine() *Machine {
	return &Machine{}
}

// NewMachineWithOptions creates a machine-code compiler configuration with
// custom options.
func NewMachineWithOptions(opts Options) *Machine {
	return &Machine{opts: opts}
}

func (c *Machine) Name() string { return "machine" }

func (c *Machine) RuntimeConfig() wazero.RuntimeConfig {
	return c.opts.apply(wazero.NewRuntimeConfigCompiler())
}

// Interpreter executes modules without generating machine code. Slower than
// Machine but runs on every platform Go supports.
type Interpreter struct {
	opts Options
}

// NewInterpreter creates an interpreter configuration.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// NewInterpreterWithOptions creates an interpreter configuration with
// custom options.
func NewInterpreterWithOptions(opts Options) *Interpreter {
	return &Interpreter{opts: opts}
}

func (c *Interpreter) Name() string { return "interpreter" }

func (c *Interpreter) RuntimeConfig() wazero.RuntimeConfig {
	return c.opts.apply(wazero.NewRuntimeConfigInterpreter())
}

// Compile-time checks that the shipped backends implement Config
var _ Config = (*Machine)(nil)
var _ Config = (*Interpreter)(nil)
