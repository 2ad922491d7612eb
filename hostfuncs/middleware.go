package hostfuncs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/ports"
)

// Middleware wraps Capabilities to add cross-cutting behavior.
// Chain applies middleware in FIFO order (first given is outermost, onion model).
//
// Example usage:
//
//	caps := hostfuncs.Chain(bridge,
//	    hostfuncs.PanicRecoveryMiddleware(logger),
//	    hostfuncs.LoggingMiddleware(logger),
//	)
type Middleware func(next ports.Capabilities) ports.Capabilities

// Chain wraps caps with every middleware.
func Chain(caps ports.Capabilities, mws ...Middleware) ports.Capabilities {
	for i := len(mws) - 1; i >= 0; i-- {
		caps = mws[i](caps)
	}
	return caps
}

// PanicRecoveryMiddleware keeps a panicking capability from unwinding into the
// sandbox. A recovered ContextCurrent returns the zero handle and a recovered
// ContextGetArgument reports the argument as absent.
func PanicRecoveryMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next ports.Capabilities) ports.Capabilities {
		return &recovering{next: next, logger: logger}
	}
}

type recovering struct {
	next   ports.Capabilities
	logger *slog.Logger
}

func (r *recovering) recovered(ctx context.Context, fn string) {
	if p := recover(); p != nil {
		r.logger.ErrorContext(ctx, "host capability panicked", "function", fn, "panic", fmt.Sprint(p))
	}
}

func (r *recovering) Log(ctx context.Context, level entities.LogLevel, message string) {
	defer r.recovered(ctx, "log")
	r.next.Log(ctx, level, message)
}

func (r *recovering) ContextCurrent(ctx context.Context) (h entities.ContextHandle) {
	defer r.recovered(ctx, "context_current")
	return r.next.ContextCurrent(ctx)
}

func (r *recovering) ContextGetArgument(ctx context.Context, handle entities.ContextHandle, name string) (value string, ok bool) {
	defer r.recovered(ctx, "context_get_argument")
	return r.next.ContextGetArgument(ctx, handle, name)
}

// LoggingMiddleware logs every argument lookup at LevelVerbose.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next ports.Capabilities) ports.Capabilities {
		return &logging{next: next, logger: logger}
	}
}

type logging struct {
	next   ports.Capabilities
	logger *slog.Logger
}

func (l *logging) Log(ctx context.Context, level entities.LogLevel, message string) {
	l.next.Log(ctx, level, message)
}

func (l *logging) ContextCurrent(ctx context.Context) entities.ContextHandle {
	return l.next.ContextCurrent(ctx)
}

func (l *logging) ContextGetArgument(ctx context.Context, handle entities.ContextHandle, name string) (string, bool) {
	value, ok := l.next.ContextGetArgument(ctx, handle, name)
	l.logger.Log(ctx, LevelVerbose, "host function context_get_argument",
		"handle", handle, "name", name, "present", ok)
	return value, ok
}
