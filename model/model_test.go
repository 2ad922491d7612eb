package model

import (
	"errors"
	"math"
	"testing"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	shape *entities.Shape
	err   error
}

func (stubModel) Metadata() entities.Metadata {
	return entities.Metadata{Name: "stub", Version: "1.0.0"}
}

func (m stubModel) Generate(Context) (*entities.Shape, error) {
	return m.shape, m.err
}

func TestOnLoadPayload(t *testing.T) {
	payload, err := OnLoadPayload(stubModel{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"stub","version":"1.0.0","description":""}`, string(payload))
}

func TestGeneratePayload_Shape(t *testing.T) {
	m := stubModel{shape: &entities.Shape{
		Vertices: []entities.Vertex{{X: 1, Y: 2, Z: 3}},
		Faces:    []entities.Face{{0, 0, 0}},
	}}

	payload, err := GeneratePayload(m, MapContext{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tag":"ok","shape":{"vertices":[{"x":1,"y":2,"z":3}],"faces":[[0,0,0]]}}`, string(payload))
}

func TestGeneratePayload_EmptyShape(t *testing.T) {
	payload, err := GeneratePayload(stubModel{}, MapContext{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tag":"ok","shape":{"vertices":[],"faces":[]}}`, string(payload))
}

func TestGeneratePayload_Error(t *testing.T) {
	for _, err := range []error{Errorf("bad %s", "width"), errors.New("bad width")} {
		payload, encErr := GeneratePayload(stubModel{err: err}, MapContext{})
		require.NoError(t, encErr)
		assert.JSONEq(t, `{"tag":"err","error":{"message":"bad width"}}`, string(payload))
	}
}

func TestGeneratePayload_NonFiniteVertex(t *testing.T) {
	inf := float32(math.Inf(1))
	nan := float32(math.NaN())

	tests := []struct {
		name   string
		vertex entities.Vertex
	}{
		{"positive infinity", entities.Vertex{X: inf}},
		{"negative infinity", entities.Vertex{Y: -inf}},
		{"NaN", entities.Vertex{Z: nan}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := stubModel{shape: &entities.Shape{
				Vertices: []entities.Vertex{{}, tt.vertex},
				Faces:    []entities.Face{{0, 1, 1}},
			}}

			payload, err := GeneratePayload(m, MapContext{})
			require.NoError(t, err)
			assert.JSONEq(t, `{"tag":"err","error":{"message":"shape has a non-finite vertex 1"}}`, string(payload))
		})
	}
}

func TestRegister(t *testing.T) {
	defer Register(nil)
	Register(stubModel{})
	assert.Equal(t, "stub", registered.Metadata().Name)
}

func TestMapContext(t *testing.T) {
	ctx := MapContext{"width": "", "depth": "3"}

	v, ok := ctx.Argument("width")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = ctx.Argument("height")
	assert.False(t, ok)
}
