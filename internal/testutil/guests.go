package testutil

import (
	"context"
	"fmt"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/ports"
	"github.com/fornjot/modelhost/model"
	"github.com/fornjot/modelhost/models/box"
)

// ModelGuest runs a model written against the guest SDK inside the fake runtime,
// resolving its arguments through the host capabilities. Generate results reach the
// host through the same encoder the wasm exports use.
type ModelGuest struct {
	Model model.Model
}

// NewBoxGuest returns the reference box model.
func NewBoxGuest() *ModelGuest {
	return &ModelGuest{Model: box.Model{}}
}

func (g *ModelGuest) OnLoad(ctx context.Context, caps ports.Capabilities) (entities.Metadata, error) {
	meta := g.Model.Metadata()
	caps.Log(ctx, entities.LogLevelDebug, meta.Name+" loaded")
	return meta, nil
}

func (g *ModelGuest) Generate(ctx context.Context, caps ports.Capabilities) (entities.Outcome, error) {
	shape, err := g.Model.Generate(capabilityContext{ctx: ctx, caps: caps, handle: caps.ContextCurrent(ctx)})
	if err != nil {
		return entities.OutcomeError(err.Error()), nil
	}
	return entities.OutcomeShape(shape), nil
}

// GenerateRaw encodes the model's result with model.GeneratePayload.
func (g *ModelGuest) GenerateRaw(ctx context.Context, caps ports.Capabilities) ([]byte, error) {
	return model.GeneratePayload(g.Model, capabilityContext{ctx: ctx, caps: caps, handle: caps.ContextCurrent(ctx)})
}

// capabilityContext adapts ports.Capabilities to model.Context.
type capabilityContext struct {
	ctx    context.Context
	caps   ports.Capabilities
	handle entities.ContextHandle
}

func (c capabilityContext) Argument(name string) (string, bool) {
	return c.caps.ContextGetArgument(c.ctx, c.handle, name)
}

// TrapGuest traps in the named export.
type TrapGuest struct {
	Meta   entities.Metadata
	Export string
}

func (g *TrapGuest) OnLoad(context.Context, ports.Capabilities) (entities.Metadata, error) {
	if g.Export == ports.ExportOnLoad {
		return entities.Metadata{}, ErrTrap
	}
	return g.Meta, nil
}

func (g *TrapGuest) Generate(context.Context, ports.Capabilities) (entities.Outcome, error) {
	return entities.Outcome{}, ErrTrap
}

// RawGuest returns Payload verbatim from generate.
type RawGuest struct {
	Meta    entities.Metadata
	Payload string
}

func (g *RawGuest) OnLoad(context.Context, ports.Capabilities) (entities.Metadata, error) {
	return g.Meta, nil
}

func (g *RawGuest) Generate(context.Context, ports.Capabilities) (entities.Outcome, error) {
	return entities.Outcome{}, fmt.Errorf("RawGuest only supports GenerateRaw")
}

func (g *RawGuest) GenerateRaw(context.Context, ports.Capabilities) ([]byte, error) {
	return []byte(g.Payload), nil
}

// EchoGuest returns an error outcome listing the argument it was asked to echo,
// letting tests observe what a model sees in its context.
type EchoGuest struct {
	Meta entities.Metadata
	Key  string
}

func (g *EchoGuest) OnLoad(context.Context, ports.Capabilities) (entities.Metadata, error) {
	return g.Meta, nil
}

func (g *EchoGuest) Generate(ctx context.Context, caps ports.Capabilities) (entities.Outcome, error) {
	v, ok := caps.ContextGetArgument(ctx, caps.ContextCurrent(ctx), g.Key)
	if !ok {
		return entities.OutcomeError("<absent>"), nil
	}
	return entities.OutcomeError(v), nil
}
