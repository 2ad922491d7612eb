package ports

import (
	"context"

	"github.com/fornjot/modelhost/domain/entities"
)

// Capabilities is the only channel through which guest code observes host state.
// One value is built per model and is never shared between models.
//
// Contract:
//   - Implementations must be safe for concurrent use.
//   - No method may fail or block indefinitely.
type Capabilities interface {
	// Log routes a guest message to the host log sink.
	Log(ctx context.Context, level entities.LogLevel, message string)

	// ContextCurrent returns the handle of the owning model's Argument Context.
	ContextCurrent(ctx context.Context) entities.ContextHandle

	// ContextGetArgument looks up name in the context identified by handle.
	// Absence is a normal outcome.
	ContextGetArgument(ctx context.Context, handle entities.ContextHandle, name string) (string, bool)
}
