// Package engine implements the three mode operations: capturing a settings
// snapshot before the first mutation, applying a profile's directives, and
// replaying the snapshot to restore the machine.
//
// Every directive is attempted independently. A failed mutation is recorded
// in the result's step list and in the operation journal, but never aborts
// the sequence; only a snapshot that cannot be persisted stops an apply,
// because without it the operation would not be reversible.
//
// The engine talks to the machine exclusively through surface.Surface, so
// all of its behavior is testable against the in-memory fake.
package engine
