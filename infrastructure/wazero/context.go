package wazero

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

// contextKey is a private type for context keys.
type contextKey struct {
	name string
}

var modelNameKey = &contextKey{name: "model_name"}

// WithModelName adds the model name to the context.
// Host functions use it to attribute diagnostics to the calling model.
func WithModelName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, modelNameKey, name)
}

// ModelNameFromContext retrieves the model name from the context.
func ModelNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(modelNameKey).(string)
	return name, ok
}

// GetModelName extracts the model name from context, falling back to the module name.
func GetModelName(ctx context.Context, mod api.Module) string {
	if name, ok := ModelNameFromContext(ctx); ok {
		return name
	}
	return mod.Name()
}
