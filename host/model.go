package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/errors"
	"github.com/fornjot/modelhost/domain/ports"
	"github.com/fornjot/modelhost/hostfuncs"
	"github.com/go-playground/validator/v10"
)

// validate is a package-level singleton; validators cache struct metadata.
var validate = validator.New()

// Model is one loaded model binary together with its sandbox instance and its
// Argument Context.
type Model struct {
	instance ports.Instance
	payloads ports.PayloadValidator
	logger   *slog.Logger
	table    *hostfuncs.HandleTable
	args     *hostfuncs.Arguments
	name     string
	path     string
	handle   entities.ContextHandle
	// call serializes guest calls; a sandbox instance is single-threaded.
	call   sync.Mutex
	closed bool
}

// Name returns the file name the model was loaded from.
func (m *Model) Name() string {
	return m.name
}

// Path returns the full path of the model binary.
func (m *Model) Path() string {
	return m.path
}

// Handle returns the handle of the model's Argument Context.
func (m *Model) Handle() entities.ContextHandle {
	return m.handle
}

// Arguments returns a copy of the model's Argument Context.
func (m *Model) Arguments() map[string]string {
	return m.args.Snapshot()
}

// ResetArguments empties the model's Argument Context.
func (m *Model) ResetArguments() {
	m.args.Clear()
}

// Metadata calls the guest's on_load export and decodes its Metadata.
// Repeated calls return identical results.
func (m *Model) Metadata(ctx context.Context) (entities.Metadata, error) {
	payload, err := m.invoke(ctx, ports.ExportOnLoad)
	if err != nil {
		return entities.Metadata{}, err
	}

	var meta entities.Metadata
	if err := json.Unmarshal(payload, &meta); err != nil {
		return entities.Metadata{}, m.malformed(ports.ExportOnLoad, fmt.Errorf("decode metadata: %w", err))
	}
	if err := validate.Struct(meta); err != nil {
		return entities.Metadata{}, m.malformed(ports.ExportOnLoad, fmt.Errorf("invalid metadata: %w", err))
	}
	return meta, nil
}

// Generate merges args into the Argument Context, calls the guest's generate export
// and decodes its result. A typed error from the guest is returned in the Outcome with
// a nil error; a trap or a result that breaks the ABI is a *errors.RuntimeError.
func (m *Model) Generate(ctx context.Context, args []entities.Argument) (entities.Outcome, error) {
	m.args.SetMany(args)

	payload, err := m.invoke(ctx, ports.ExportGenerate)
	if err != nil {
		return entities.Outcome{}, err
	}

	var wire entities.GenerateResultWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return entities.Outcome{}, m.malformed(ports.ExportGenerate, fmt.Errorf("decode result: %w", err))
	}
	outcome, err := wire.Outcome()
	if err != nil {
		return entities.Outcome{}, m.malformed(ports.ExportGenerate, err)
	}
	if outcome.Shape != nil {
		if err := outcome.Shape.Validate(); err != nil {
			return entities.Outcome{}, m.malformed(ports.ExportGenerate, err)
		}
	}
	return outcome, nil
}

// Close releases the sandbox instance and the model's handle.
// Closing twice is a no-op.
func (m *Model) Close(ctx context.Context) error {
	m.call.Lock()
	defer m.call.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.table.Remove(m.handle)
	return m.instance.Close(ctx)
}

func (m *Model) invoke(ctx context.Context, export string) ([]byte, error) {
	m.call.Lock()
	defer m.call.Unlock()

	if m.closed {
		return nil, &errors.RuntimeError{Err: fmt.Errorf("model is closed"), Model: m.name, Export: export}
	}

	m.logger.DebugContext(ctx, "Calling guest export", "model", m.name, "export", export)
	payload, err := m.instance.Call(ctx, export)
	if err != nil {
		return nil, &errors.RuntimeError{Err: err, Model: m.name, Export: export}
	}
	if m.payloads != nil {
		if err := m.payloads.ValidatePayload(export, payload); err != nil {
			return nil, m.malformed(export, err)
		}
	}
	return payload, nil
}

func (m *Model) malformed(export string, err error) error {
	return &errors.RuntimeError{
		Err:    fmt.Errorf("%w: %w", errors.ErrMalformedResult, err),
		Model:  m.name,
		Export: export,
	}
}
