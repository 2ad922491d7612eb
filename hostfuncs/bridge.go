package hostfuncs

import (
	"context"
	"log/slog"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/ports"
)

// LevelVerbose sits below slog.LevelDebug for the guest's most chatty level.
const LevelVerbose = slog.LevelDebug - 4

// Bridge is the Host Capability Bridge for one model. It is closed over that model's
// context handle and can never resolve another model's context.
type Bridge struct {
	logger *slog.Logger
	table  *HandleTable
	handle entities.ContextHandle
}

var _ ports.Capabilities = (*Bridge)(nil)

// NewBridge creates the capability binding for the model whose context is stored
// under handle in table.
func NewBridge(logger *slog.Logger, table *HandleTable, handle entities.ContextHandle) *Bridge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bridge{
		logger: logger,
		table:  table,
		handle: handle,
	}
}

// Log routes message to the host logger at the level the guest asked for.
// Failures in the sink are swallowed.
func (b *Bridge) Log(ctx context.Context, level entities.LogLevel, message string) {
	defer func() {
		_ = recover()
	}()

	if !level.Valid() {
		b.logger.Log(ctx, slog.LevelInfo, message, "guest_level", int32(level))
		return
	}
	b.logger.Log(ctx, SlogLevel(level), message)
}

// ContextCurrent returns the handle of this bridge's model.
func (b *Bridge) ContextCurrent(_ context.Context) entities.ContextHandle {
	return b.handle
}

// ContextGetArgument returns the value of name in the context identified by handle.
// Handles other than the bridge's own resolve to absent.
func (b *Bridge) ContextGetArgument(ctx context.Context, handle entities.ContextHandle, name string) (string, bool) {
	if handle != b.handle {
		b.logger.WarnContext(ctx, "guest used a foreign context handle",
			"handle", uint32(handle), "own", uint32(b.handle))
		return "", false
	}
	args, ok := b.table.Lookup(handle)
	if !ok {
		b.logger.WarnContext(ctx, "guest used a released context handle", "handle", uint32(handle))
		return "", false
	}
	return args.Get(name)
}

// SlogLevel maps a guest log level onto slog.
func SlogLevel(level entities.LogLevel) slog.Level {
	switch level {
	case entities.LogLevelError:
		return slog.LevelError
	case entities.LogLevelWarning:
		return slog.LevelWarn
	case entities.LogLevelInfo:
		return slog.LevelInfo
	case entities.LogLevelDebug:
		return slog.LevelDebug
	case entities.LogLevelVerbose:
		return LevelVerbose
	default:
		return slog.LevelInfo
	}
}
