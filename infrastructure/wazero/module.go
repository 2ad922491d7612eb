package wazero

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domainerrors "github.com/fornjot/modelhost/domain/errors"
	"github.com/fornjot/modelhost/domain/ports"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// errAlreadyInstantiated is returned when a compiled module is instantiated twice.
var errAlreadyInstantiated = errors.New("module already instantiated")

// compiledModule owns the per-model wazero runtime until it is instantiated.
type compiledModule struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	name     string
	config   Config
	mu       sync.Mutex
	used     bool
}

// Instantiate builds the host module from caps and instantiates the guest against it.
func (m *compiledModule) Instantiate(ctx context.Context, caps ports.Capabilities) (ports.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.used {
		return nil, errAlreadyInstantiated
	}
	m.used = true

	fail := func(err error) (ports.Instance, error) {
		_ = m.runtime.Close(ctx)
		return nil, err
	}

	if m.config.WASI {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, m.runtime); err != nil {
			return fail(fmt.Errorf("failed to instantiate WASI: %w", err))
		}
	}

	if err := registerCapabilities(ctx, m.runtime, caps, m.config); err != nil {
		return fail(fmt.Errorf("failed to register host functions: %w", err))
	}

	ctx = WithModelName(ctx, m.name)
	mod, err := m.runtime.InstantiateModule(ctx, m.compiled,
		wazero.NewModuleConfig().WithName(m.name).WithStartFunctions())
	if err != nil {
		return fail(err)
	}

	if init := mod.ExportedFunction(exportInitialize); init != nil {
		if _, err := init.Call(ctx); err != nil {
			return fail(fmt.Errorf("failed to call %s: %w", exportInitialize, err))
		}
	}

	return &instance{
		name:    m.name,
		runtime: m.runtime,
		module:  mod,
		config:  m.config,
	}, nil
}

// Close releases the runtime if the module was never instantiated.
func (m *compiledModule) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.used {
		return nil
	}
	m.used = true
	return m.runtime.Close(ctx)
}

// instance is a live guest inside its own runtime.
type instance struct {
	runtime wazero.Runtime
	module  api.Module
	name    string
	config  Config
}

// Call invokes a parameterless export returning a packed payload and copies the
// payload out of guest memory.
func (i *instance) Call(ctx context.Context, export string) ([]byte, error) {
	ctx = WithModelName(ctx, i.name)

	f := i.module.ExportedFunction(export)
	if f == nil {
		return nil, fmt.Errorf("export %q not found", export)
	}

	results, err := f.Call(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: export %q returned no value", domainerrors.ErrMalformedResult, export)
	}

	data, err := readBytes(i.module, results[0], i.config.MaxResultSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrMalformedResult, err)
	}

	if dealloc := i.module.ExportedFunction(exportDeallocate); dealloc != nil {
		ptr, length := unpackPtrLen(results[0])
		if _, err := dealloc.Call(ctx, api.EncodeU32(ptr), api.EncodeU32(length)); err != nil {
			return nil, fmt.Errorf("failed to release result: %w", err)
		}
	}

	return data, nil
}

// Close reclaims the instance and its runtime.
func (i *instance) Close(ctx context.Context) error {
	return i.runtime.Close(ctx)
}
