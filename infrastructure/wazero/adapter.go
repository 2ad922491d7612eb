package wazero

import (
	"context"
	"log/slog"

	"github.com/fornjot/modelhost/domain/ports"
	"github.com/fornjot/modelhost/hostfuncs"
	"github.com/tetratelabs/wazero"
)

// DefaultModuleName is the namespace guests import host capabilities from.
const DefaultModuleName = "fornjot_v1"

// Config holds configuration for the wazero runtime adapter.
type Config struct {
	// Logger receives adapter diagnostics (bad guest pointers, failed allocations).
	Logger *slog.Logger

	// ModuleName is the host module name (default: "fornjot_v1").
	ModuleName string

	// MaxMessageSize limits strings read from guest memory by host functions.
	MaxMessageSize uint32

	// MaxResultSize limits payloads returned by on_load and generate.
	MaxResultSize uint32

	// MemoryLimitPages caps guest memory in 64KiB pages. Zero keeps wazero's default.
	MemoryLimitPages uint32

	// WASI instantiates wasi_snapshot_preview1 for guests built against it.
	WASI bool

	// Interpreter selects wazero's interpreter instead of the compiler.
	Interpreter bool
}

// Option configures the adapter.
type Option func(*Config)

// WithModuleName sets the host module name (default: "fornjot_v1").
func WithModuleName(name string) Option {
	return func(c *Config) {
		c.ModuleName = name
	}
}

// WithMaxMessageSize sets the maximum size of a string read from guest memory.
func WithMaxMessageSize(size uint32) Option {
	return func(c *Config) {
		c.MaxMessageSize = size
	}
}

// WithMaxResultSize sets the maximum size of an export's result payload.
func WithMaxResultSize(size uint32) Option {
	return func(c *Config) {
		c.MaxResultSize = size
	}
}

// WithMemoryLimitPages caps guest linear memory.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *Config) {
		c.MemoryLimitPages = pages
	}
}

// WithWASI enables or disables wasi_snapshot_preview1.
func WithWASI(enabled bool) Option {
	return func(c *Config) {
		c.WASI = enabled
	}
}

// WithInterpreter forces the interpreter engine.
func WithInterpreter(enabled bool) Option {
	return func(c *Config) {
		c.Interpreter = enabled
	}
}

// WithLogger sets the adapter logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// defaultConfig returns the default adapter configuration.
func defaultConfig() Config {
	return Config{
		ModuleName:     DefaultModuleName,
		MaxMessageSize: hostfuncs.DefaultMaxMessageSize,
		MaxResultSize:  hostfuncs.DefaultMaxResultSize,
		WASI:           true,
	}
}

// Runtime implements ports.SandboxRuntime.
type Runtime struct {
	cache  wazero.CompilationCache
	config Config
}

var _ ports.SandboxRuntime = (*Runtime)(nil)

// NewRuntime creates a sandbox runtime with the given options.
func NewRuntime(opts ...Option) *Runtime {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Runtime{
		config: cfg,
		cache:  wazero.NewCompilationCache(),
	}
}

// Config returns the effective configuration.
func (r *Runtime) Config() Config {
	return r.config
}

// Close releases the compilation cache. Models compiled by r must be closed first.
func (r *Runtime) Close(ctx context.Context) error {
	return r.cache.Close(ctx)
}

// Compile compiles binary inside a fresh wazero runtime and checks it against the
// host's import/export interface.
func (r *Runtime) Compile(ctx context.Context, name string, binary []byte) (ports.CompiledModule, error) {
	rt := wazero.NewRuntimeWithConfig(ctx, r.runtimeConfig())

	compiled, err := rt.CompileModule(ctx, binary)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	if err := checkInterface(compiled, r.config.ModuleName); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	return &compiledModule{
		name:     name,
		runtime:  rt,
		compiled: compiled,
		config:   r.config,
	}, nil
}

func (r *Runtime) runtimeConfig() wazero.RuntimeConfig {
	var rc wazero.RuntimeConfig
	if r.config.Interpreter {
		rc = wazero.NewRuntimeConfigInterpreter()
	} else {
		rc = wazero.NewRuntimeConfig()
	}
	rc = rc.WithCompilationCache(r.cache)
	if r.config.MemoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(r.config.MemoryLimitPages)
	}
	return rc
}
