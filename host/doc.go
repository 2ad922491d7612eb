// Package host discovers model binaries in a directory, loads each one into its own
// sandbox instance, and drives the two-phase invocation protocol: on_load for a model's
// Metadata and generate for its Shape.
//
// A Loader produces a Registry. Every Model in it owns a private Argument Context that
// the guest reaches through the host capabilities by an opaque handle. Arguments given
// to Generate accumulate in that context; they are not cleared between invocations.
package host
