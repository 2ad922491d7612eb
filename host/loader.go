package host

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fornjot/modelhost/domain/errors"
	"github.com/fornjot/modelhost/domain/ports"
	"github.com/fornjot/modelhost/hostfuncs"
)

// readDir lists an opened directory. A partial listing is returned alongside the
// error that cut it short.
var readDir = func(f *os.File) ([]os.DirEntry, error) {
	return f.ReadDir(-1)
}

// Loader turns a directory of model binaries into a Registry.
type Loader struct {
	runtime ports.SandboxRuntime
	config  loaderConfig
}

// NewLoader creates a new Loader backed by runtime.
func NewLoader(runtime ports.SandboxRuntime, opts ...LoaderOption) *Loader {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.table == nil {
		cfg.table = hostfuncs.NewHandleTable()
	}
	return &Loader{runtime: runtime, config: cfg}
}

// HandleTable returns the table the loader registers Argument Contexts in.
func (l *Loader) HandleTable() *hostfuncs.HandleTable {
	return l.config.table
}

// Load compiles and instantiates every regular file in dir that carries the model
// extension, in the order the directory lists them. A dir that cannot be opened or is
// not a directory is an IOError. Entries that cannot be listed or inspected are
// skipped. Any read, compile or instantiate failure aborts the whole load: the
// models loaded so far are closed and no Registry is returned.
func (l *Loader) Load(ctx context.Context, dir string) (*Registry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, &errors.IOError{Err: err, Path: dir}
	}
	info, err := f.Stat()
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", dir)
	}
	if err != nil {
		_ = f.Close()
		return nil, &errors.IOError{Err: err, Path: dir}
	}
	entries, err := readDir(f)
	_ = f.Close()
	if err != nil {
		l.config.logger.DebugContext(ctx, "Directory listing incomplete", "dir", dir, "listed", len(entries), "error", err)
	}

	reg := &Registry{}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := os.Stat(path)
		if err != nil {
			l.config.logger.DebugContext(ctx, "Skipping unreadable entry", "path", path, "error", err)
			continue
		}
		if !info.Mode().IsRegular() || filepath.Ext(path) != l.config.extension {
			continue
		}

		model, err := l.loadFile(ctx, path)
		if err != nil {
			_ = reg.Close(ctx)
			return nil, err
		}
		reg.models = append(reg.models, model)
	}

	l.config.logger.DebugContext(ctx, "Loaded models", "dir", dir, "count", reg.Len())
	return reg, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) (*Model, error) {
	logger := l.config.logger
	name := filepath.Base(path)

	logger.DebugContext(ctx, "Reading model", "path", path)
	binary, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.IOError{Err: err, Path: path}
	}

	logger.DebugContext(ctx, "Compiling model", "path", path, "size", len(binary))
	compiled, err := l.runtime.Compile(ctx, name, binary)
	if err != nil {
		return nil, &errors.CompileError{Err: err, Path: path}
	}

	args := hostfuncs.NewArguments()
	handle := l.config.table.Insert(args)
	modelLogger := logger.With("model", name)
	bridge := hostfuncs.NewBridge(modelLogger, l.config.table, handle)
	mws := append([]hostfuncs.Middleware{hostfuncs.PanicRecoveryMiddleware(modelLogger)}, l.config.middleware...)

	logger.DebugContext(ctx, "Instantiating model", "path", path, "handle", handle)
	instance, err := compiled.Instantiate(ctx, hostfuncs.Chain(bridge, mws...))
	if err != nil {
		l.config.table.Remove(handle)
		_ = compiled.Close(ctx)
		return nil, &errors.InstantiationError{Err: err, Path: path}
	}

	return &Model{
		instance: instance,
		payloads: l.config.payloads,
		logger:   logger,
		table:    l.config.table,
		args:     args,
		name:     name,
		path:     path,
		handle:   handle,
	}, nil
}
