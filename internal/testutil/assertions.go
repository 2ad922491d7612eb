// Package testutil provides a fake sandbox runtime, guest doubles and assertions for
// host tests.
package testutil

import (
	"testing"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertShapeIndices asserts that every face index of s is below len(s.Vertices)
func AssertShapeIndices(t *testing.T, s *entities.Shape) {
	t.Helper()
	require.NotNil(t, s, "shape is nil")
	for i, f := range s.Faces {
		for _, idx := range f {
			assert.Less(t, int(idx), len(s.Vertices), "face %d is out of range", i)
		}
	}
}
