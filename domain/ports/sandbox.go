package ports

import (
	"context"
)

// Guest export names every model binary must provide.
const (
	ExportOnLoad   = "on_load"
	ExportGenerate = "generate"
)

// SandboxRuntime compiles untrusted binaries for isolated execution.
type SandboxRuntime interface {
	// Compile validates binary and checks it against the host's import/export
	// interface. name identifies the module in logs and errors.
	Compile(ctx context.Context, name string, binary []byte) (CompiledModule, error)
}

// CompiledModule is a module descriptor that has not been instantiated yet.
type CompiledModule interface {
	// Instantiate binds the module against caps, producing a live instance.
	// It fails when the module's imports cannot be satisfied.
	Instantiate(ctx context.Context, caps Capabilities) (Instance, error)

	// Close releases the descriptor without instantiating it.
	Close(ctx context.Context) error
}

// Instance is a live sandboxed module.
type Instance interface {
	// Call invokes a parameterless export and returns the bytes it handed back.
	// Any error is a trap or an ABI violation, never the guest's typed error.
	Call(ctx context.Context, export string) ([]byte, error)

	// Close reclaims the instance.
	Close(ctx context.Context) error
}
