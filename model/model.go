// Package model is the guest-side SDK for writing models in Go.
//
// A model implements Model and registers itself from an init function:
//
//	func init() {
//	    model.Register(box.Model{})
//	}
//
// Built with GOOS=wasip1 GOARCH=wasm and -buildmode=c-shared, the package exports
// on_load, generate, allocate and deallocate and imports the host capabilities.
package model

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/fornjot/modelhost/domain/entities"
)

// Context gives a model read access to its arguments during generate.
type Context interface {
	// Argument returns the value of the named argument and whether it is present.
	Argument(name string) (string, bool)
}

// Model is implemented by every guest model.
type Model interface {
	// Metadata identifies the model. It must not change between calls.
	Metadata() entities.Metadata

	// Generate builds the model's shape. A returned error becomes the typed error the
	// host reports to the user; it is not a failure of the host.
	Generate(ctx Context) (*entities.Shape, error)
}

var registered Model

// Register installs the model served by the exports. Registering twice replaces the
// first model.
func Register(m Model) {
	registered = m
}

// Errorf formats a typed error for Generate to return.
func Errorf(format string, args ...any) error {
	return &entities.GuestError{Message: fmt.Sprintf(format, args...)}
}

// OnLoadPayload encodes m's Metadata the way on_load returns it.
func OnLoadPayload(m Model) ([]byte, error) {
	return json.Marshal(m.Metadata())
}

// GeneratePayload runs m and encodes the tagged result the way generate returns it.
// A shape that cannot be encoded is reported as the model's typed error.
func GeneratePayload(m Model, ctx Context) ([]byte, error) {
	shape, err := m.Generate(ctx)
	if err != nil {
		return errorPayload(err.Error())
	}
	if shape == nil {
		shape = &entities.Shape{}
	}
	if shape.Vertices == nil {
		shape.Vertices = []entities.Vertex{}
	}
	if shape.Faces == nil {
		shape.Faces = []entities.Face{}
	}
	for i, v := range shape.Vertices {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return errorPayload(fmt.Sprintf("shape has a non-finite vertex %d", i))
		}
	}
	payload, err := json.Marshal(entities.GenerateResultFromOutcome(entities.OutcomeShape(shape)))
	if err != nil {
		return errorPayload(fmt.Sprintf("unable to encode the shape: %v", err))
	}
	return payload, nil
}

func errorPayload(message string) ([]byte, error) {
	return json.Marshal(entities.GenerateResultFromOutcome(entities.OutcomeError(message)))
}

func finite(f float32) bool {
	return !math.IsInf(float64(f), 0) && !math.IsNaN(float64(f))
}

// MapContext is a Context backed by a map, for running models outside a host.
type MapContext map[string]string

// Argument implements Context.
func (c MapContext) Argument(name string) (string, bool) {
	v, ok := c[name]
	return v, ok
}
