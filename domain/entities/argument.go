package entities

// Argument is a parsed key=value pair supplied to a model.
type Argument struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ContextHandle is the opaque token a guest uses to address its Argument Context.
// The zero handle is never issued.
type ContextHandle uint32

// LogLevel is the severity a guest attaches to a log message, ordered from most to
// least severe.
type LogLevel int32

const (
	LogLevelError LogLevel = iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
	LogLevelVerbose
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarning:
		return "warning"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	case LogLevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// Valid reports whether l is one of the defined levels.
func (l LogLevel) Valid() bool {
	return l >= LogLevelError && l <= LogLevelVerbose
}
