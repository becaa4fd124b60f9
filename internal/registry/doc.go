// Package registry provides the table of builtins that task bodies can call.
//
// A Builtin pairs a name with a Signature (argument count and the kinds
// accepted at every position) and the Go function implementing it. Modules
// under modules/ register their builtins once at startup; afterwards the
// registry is only read, so concurrent evaluators share it without locking.
//
// Signatures are checked before a builtin runs, so implementations can read
// their arguments without re-validating them.
package registry
