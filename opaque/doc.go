// Package opaque bridges compiler configurations across a boundary that can
// only carry primitive integers.
//
// When the component that produces a compiler.Config and the component that
// consumes it are loaded independently, the config cannot be passed as a
// typed reference. Wrap boxes the config into a Compiler carrier and
// registers it in a process-wide table; the carrier's Handle is a plain
// integer that round-trips safely through any channel that preserves
// integers.
//
//	carrier := opaque.Wrap(cfg)
//	h := carrier.Handle()
//
//	// h crosses the untyped channel as a uint64 ...
//
//	cfg, err := opaque.Resolve(h)
//
// A handle is a borrow token, not an owner. Resolve returns the shared
// configuration without transferring ownership: references resolved before
// the carrier is closed remain valid afterwards.
//
// Handles pack a table slot index and a generation counter, so a zero
// handle, an unknown handle, or a handle whose carrier has been closed all
// fail cleanly from Resolve. No type confusion is possible: the table only
// ever holds compiler.Config values registered through Wrap.
package opaque
