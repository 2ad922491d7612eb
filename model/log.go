package model

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fornjot/modelhost/domain/entities"
)

// LogHandler implements slog.Handler by forwarding each record to the host's log
// capability as a single line: the message followed by key=value attributes.
type LogHandler struct {
	attrs []slog.Attr
	group string
	opts  handlerConfig
}

// HandlerOption configures the LogHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	sink  func(entities.LogLevel, string)
	level slog.Level
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelDebug,
		sink:  hostLog,
	}
}

// WithLevel sets the minimum level forwarded to the host.
// Records below this level are dropped on the guest side.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSink replaces the host log capability, mostly for tests.
func WithSink(sink func(entities.LogLevel, string)) HandlerOption {
	return func(c *handlerConfig) {
		c.sink = sink
	}
}

// NewHandler creates a new LogHandler with the given options.
func NewHandler(opts ...HandlerOption) *LogHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &LogHandler{opts: cfg}
}

// Logger returns a logger that writes through the host.
func Logger() *slog.Logger {
	return slog.New(NewHandler())
}

// Enabled reports whether the handler handles records at the given level.
func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level
}

// Handle implements slog.Handler.
func (h *LogHandler) Handle(_ context.Context, record slog.Record) error {
	if h.opts.sink == nil {
		return nil
	}

	var b strings.Builder
	b.WriteString(record.Message)
	for _, attr := range h.attrs {
		writeAttr(&b, "", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&b, h.group, attr)
		return true
	})

	h.opts.sink(guestLevel(record.Level), b.String())
	return nil
}

// WithAttrs returns a new LogHandler that includes the given attributes.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

// WithGroup returns a new LogHandler that prefixes later attribute keys with name.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if next.group != "" {
		next.group += "."
	}
	next.group += name
	return &next
}

// guestLevel maps a slog level onto the host's five levels.
func guestLevel(l slog.Level) entities.LogLevel {
	switch {
	case l >= slog.LevelError:
		return entities.LogLevelError
	case l >= slog.LevelWarn:
		return entities.LogLevelWarning
	case l >= slog.LevelInfo:
		return entities.LogLevelInfo
	case l >= slog.LevelDebug:
		return entities.LogLevelDebug
	default:
		return entities.LogLevelVerbose
	}
}

func writeAttr(b *strings.Builder, group string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	key := attr.Key
	if group != "" {
		key = group + "." + key
	}

	if attr.Value.Kind() == slog.KindGroup {
		for _, a := range attr.Value.Group() {
			writeAttr(b, key, a)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(formatValue(attr.Value))
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return fmt.Sprintf("%q", s)
		}
		return s
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return fmt.Sprintf("%q", err.Error())
		}
		return fmt.Sprintf("%v", v.Any())
	default:
		return v.String()
	}
}
