// Package app contains the core application logic. It locates and loads
// the Rhizfile, resolves settings, and runs or lists tasks, decoupled from
// any specific entrypoint like a CLI.
package app
