// Package box is the reference model: a rectangular box sized by the "width" and
// "depth" arguments. Its height equals its width.
package box

import (
	"math"
	"strconv"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/model"
)

// Model generates the box.
type Model struct{}

var _ model.Model = Model{}

// Metadata implements model.Model.
func (Model) Metadata() entities.Metadata {
	return entities.Metadata{
		Name:        "box",
		Description: "A box",
		Version:     "0.1.0",
	}
}

// Generate implements model.Model.
func (Model) Generate(ctx model.Context) (*entities.Shape, error) {
	width, err := dimension(ctx, "width")
	if err != nil {
		return nil, err
	}
	depth, err := dimension(ctx, "depth")
	if err != nil {
		return nil, err
	}

	vertices := []entities.Vertex{
		{X: 0, Y: 0, Z: 0},
		{X: width, Y: 0, Z: 0},
		{X: width, Y: width, Z: 0},
		{X: 0, Y: width, Z: 0},
		{X: 0, Y: width, Z: depth},
		{X: width, Y: width, Z: depth},
		{X: width, Y: 0, Z: depth},
		{X: 0, Y: 0, Z: depth},
	}

	faces := []entities.Face{
		{0, 2, 1}, // front
		{0, 3, 2},
		{2, 3, 4}, // top
		{2, 4, 5},
		{1, 2, 5}, // right
		{1, 5, 6},
		{0, 7, 4}, // left
		{0, 4, 3},
		{5, 4, 7}, // back
		{5, 7, 6},
		{0, 6, 7}, // bottom
		{0, 1, 6},
	}

	return &entities.Shape{Vertices: vertices, Faces: faces}, nil
}

func dimension(ctx model.Context, name string) (float32, error) {
	raw, ok := ctx.Argument(name)
	if !ok {
		return 0, model.Errorf("The %q argument is missing", name)
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, model.Errorf("Unable to parse the %s: %v", name, err)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, model.Errorf("Unable to parse the %s: %q is not a finite number", name, raw)
	}
	return float32(v), nil
}
