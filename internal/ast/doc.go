// Package ast defines the value tree produced by the parser and consumed by
// the compiler and the executor.
//
// A tree is built once per Rhizfile and is read-only afterwards: compiled
// tasks and concurrently running evaluators share its nodes without copying
// or locking.
package ast
