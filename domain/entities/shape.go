package entities

import "fmt"

// Vertex is a point in 3-D space.
type Vertex struct {
	X float32 `json:"x" jsonschema:"required"`
	Y float32 `json:"y" jsonschema:"required"`
	Z float32 `json:"z" jsonschema:"required"`
}

// Face is a triangle given as three indices into Shape.Vertices.
// Winding order is defined by the producing model.
type Face [3]uint32

// Shape is the triangle mesh produced by a model's generate export.
type Shape struct {
	Vertices []Vertex `json:"vertices" jsonschema:"required"`
	Faces    []Face   `json:"faces" jsonschema:"required"`
}

// Validate reports the first face that references a vertex outside Vertices.
func (s *Shape) Validate() error {
	n := uint32(len(s.Vertices)) //nolint:gosec // G115: vertex counts are bounded by guest memory
	for i, f := range s.Faces {
		for _, idx := range f {
			if idx >= n {
				return fmt.Errorf("face %d references vertex %d, shape has %d vertices", i, idx, n)
			}
		}
	}
	return nil
}
