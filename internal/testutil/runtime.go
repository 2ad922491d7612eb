package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/ports"
)

// Guest is a model implemented in Go that runs inside the fake runtime.
type Guest interface {
	OnLoad(ctx context.Context, caps ports.Capabilities) (entities.Metadata, error)
	Generate(ctx context.Context, caps ports.Capabilities) (entities.Outcome, error)
}

// RawGenerator lets a guest hand back arbitrary generate bytes, bypassing the encoder.
type RawGenerator interface {
	GenerateRaw(ctx context.Context, caps ports.Capabilities) ([]byte, error)
}

// ErrTrap is returned by fake instances in place of a sandbox trap.
var ErrTrap = errors.New("unreachable executed")

// Runtime is an in-process ports.SandboxRuntime. A binary is the registered key of a
// Guest; any other content fails to compile.
type Runtime struct {
	guests        map[string]Guest
	unsatisfiable map[string]bool
	calls         []string
	closed        int
	mu            sync.Mutex
}

var _ ports.SandboxRuntime = (*Runtime)(nil)

// NewRuntime creates an empty fake runtime.
func NewRuntime() *Runtime {
	return &Runtime{
		guests:        make(map[string]Guest),
		unsatisfiable: make(map[string]bool),
	}
}

// Register makes binary compile to g.
func (r *Runtime) Register(binary string, g Guest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guests[binary] = g
}

// RegisterUnsatisfiable makes binary compile but fail to instantiate.
func (r *Runtime) RegisterUnsatisfiable(binary string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsatisfiable[binary] = true
}

// Calls returns every export call made so far as "model:export".
func (r *Runtime) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Closed returns how many instances or unused modules were closed.
func (r *Runtime) Closed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Compile implements ports.SandboxRuntime.
func (r *Runtime) Compile(_ context.Context, name string, binary []byte) (ports.CompiledModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(binary)
	if r.unsatisfiable[key] {
		return &compiledModule{runtime: r, name: name}, nil
	}
	g, ok := r.guests[key]
	if !ok {
		return nil, fmt.Errorf("invalid magic number")
	}
	return &compiledModule{runtime: r, name: name, guest: g}, nil
}

func (r *Runtime) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *Runtime) markClosed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
}

type compiledModule struct {
	runtime *Runtime
	guest   Guest
	name    string
}

func (m *compiledModule) Instantiate(_ context.Context, caps ports.Capabilities) (ports.Instance, error) {
	if m.guest == nil {
		return nil, fmt.Errorf("module[env] not instantiated")
	}
	return &instance{runtime: m.runtime, guest: m.guest, caps: caps, name: m.name}, nil
}

func (m *compiledModule) Close(context.Context) error {
	m.runtime.markClosed()
	return nil
}

type instance struct {
	runtime *Runtime
	guest   Guest
	caps    ports.Capabilities
	name    string
}

func (i *instance) Call(ctx context.Context, export string) ([]byte, error) {
	i.runtime.record(i.name + ":" + export)

	switch export {
	case ports.ExportOnLoad:
		meta, err := i.guest.OnLoad(ctx, i.caps)
		if err != nil {
			return nil, err
		}
		return json.Marshal(meta)
	case ports.ExportGenerate:
		if raw, ok := i.guest.(RawGenerator); ok {
			return raw.GenerateRaw(ctx, i.caps)
		}
		outcome, err := i.guest.Generate(ctx, i.caps)
		if err != nil {
			return nil, err
		}
		return json.Marshal(entities.GenerateResultFromOutcome(outcome))
	default:
		return nil, fmt.Errorf("export %q not found", export)
	}
}

func (i *instance) Close(context.Context) error {
	i.runtime.markClosed()
	return nil
}
