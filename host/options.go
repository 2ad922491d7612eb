package host

import (
	"log/slog"

	"github.com/fornjot/modelhost/domain/ports"
	"github.com/fornjot/modelhost/hostfuncs"
)

// DefaultExtension is the file extension a model binary must carry.
const DefaultExtension = ".wasm"

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	logger     *slog.Logger
	table      *hostfuncs.HandleTable
	payloads   ports.PayloadValidator
	extension  string
	middleware []hostfuncs.Middleware
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		extension: DefaultExtension,
	}
}

// LoaderOption configures the Loader.
type LoaderOption func(*loaderConfig)

// WithLogger sets the logger used by the loader and by every model's host capabilities.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(c *loaderConfig) {
		c.logger = logger
	}
}

// WithExtension changes the file extension that marks a model binary.
// The match is exact and case-sensitive.
func WithExtension(ext string) LoaderOption {
	return func(c *loaderConfig) {
		c.extension = ext
	}
}

// WithHandleTable shares a handle table between loaders.
func WithHandleTable(table *hostfuncs.HandleTable) LoaderOption {
	return func(c *loaderConfig) {
		c.table = table
	}
}

// WithPayloadValidator checks every raw on_load and generate payload before it is
// decoded. Without one, payloads are only decoded and checked structurally.
func WithPayloadValidator(v ports.PayloadValidator) LoaderOption {
	return func(c *loaderConfig) {
		c.payloads = v
	}
}

// WithMiddleware wraps every model's host capabilities. Panic recovery is always
// applied outermost.
func WithMiddleware(mws ...hostfuncs.Middleware) LoaderOption {
	return func(c *loaderConfig) {
		c.middleware = append(c.middleware, mws...)
	}
}
