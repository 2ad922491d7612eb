package hostfuncs

import (
	"testing"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleTable(t *testing.T) {
	table := NewHandleTable()
	a, b := NewArguments(), NewArguments()

	ha := table.Insert(a)
	hb := table.Insert(b)
	assert.NotZero(t, ha)
	assert.NotEqual(t, ha, hb)
	assert.Equal(t, 2, table.Len())

	got, ok := table.Lookup(ha)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = table.Lookup(entities.ContextHandle(0))
	assert.False(t, ok)

	table.Remove(ha)
	_, ok = table.Lookup(ha)
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())

	table.Remove(ha)
	assert.Equal(t, 1, table.Len())

	hc := table.Insert(NewArguments())
	assert.NotEqual(t, ha, hc, "handles are never reused")
}
