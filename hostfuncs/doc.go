// Package hostfuncs provides pure Go implementations of the host capabilities a
// model may call: logging, resolving its own Argument Context and reading arguments
// from it by handle.
// These implementations have NO WASM runtime dependencies; the sandbox adapter
// exposes them to guests.
package hostfuncs
