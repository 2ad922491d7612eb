package host_test

import (
	"context"
	"testing"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/errors"
	"github.com/fornjot/modelhost/domain/ports"
	"github.com/fornjot/modelhost/host"
	"github.com/fornjot/modelhost/hostfuncs"
	"github.com/fornjot/modelhost/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRegistry(t *testing.T, rt *testutil.Runtime, files map[string]string, opts ...host.LoaderOption) *host.Registry {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	reg, err := host.NewLoader(rt, opts...).Load(context.Background(), dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close(context.Background()) })
	return reg
}

func TestRegistry_ListReportsMetadata(t *testing.T) {
	rt := testutil.NewRuntime()
	rt.Register("box", testutil.NewBoxGuest())

	reg := loadRegistry(t, rt, map[string]string{"box.wasm": "box"})

	list, err := reg.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "box", list[0].Name)
	assert.Equal(t, "0.1.0", list[0].Version)
	assert.Equal(t, "A box", list[0].Description)
}

func TestRegistry_ListFollowsLoadOrder(t *testing.T) {
	rt := testutil.NewRuntime()
	rt.Register("a", &testutil.EchoGuest{Meta: meta("a")})
	rt.Register("b", &testutil.EchoGuest{Meta: meta("b")})
	rt.Register("c", &testutil.EchoGuest{Meta: meta("c")})

	reg := loadRegistry(t, rt, map[string]string{"a.wasm": "a", "b.wasm": "b", "c.wasm": "c"})

	list, err := reg.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, reg.Len())
	for i, m := range reg.Models() {
		got, err := m.Metadata(context.Background())
		require.NoError(t, err)
		assert.Equal(t, got, list[i])
	}
}

func TestRegistry_FindByName(t *testing.T) {
	rt := testutil.NewRuntime()
	rt.Register("box", testutil.NewBoxGuest())
	rt.Register("echo", &testutil.EchoGuest{Meta: meta("echo")})

	reg := loadRegistry(t, rt, map[string]string{"box.wasm": "box", "echo.wasm": "echo"})

	m, err := reg.Find(context.Background(), "box")
	require.NoError(t, err)
	assert.Equal(t, "box.wasm", m.Name())

	_, err = reg.Find(context.Background(), "Box")
	var nf *errors.NotFoundError
	require.ErrorAs(t, err, &nf, "names match exactly")
}

func TestRegistry_FindMissingInvokesNoGenerate(t *testing.T) {
	rt := testutil.NewRuntime()
	rt.Register("box", testutil.NewBoxGuest())

	reg := loadRegistry(t, rt, map[string]string{"box.wasm": "box"})

	_, err := reg.Find(context.Background(), "nonexistent")
	var nf *errors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nonexistent", nf.Name)
	assert.Equal(t, `model "nonexistent" not found`, err.Error())

	for _, call := range rt.Calls() {
		assert.NotContains(t, call, ports.ExportGenerate)
	}
}

func TestRegistry_FindPropagatesMetadataFailure(t *testing.T) {
	rt := testutil.NewRuntime()
	rt.Register("trap", &testutil.TrapGuest{Export: ports.ExportOnLoad})

	reg := loadRegistry(t, rt, map[string]string{"trap.wasm": "trap"})

	_, err := reg.Find(context.Background(), "box")
	var rtErr *errors.RuntimeError
	assert.ErrorAs(t, err, &rtErr)

	_, err = reg.List(context.Background())
	assert.ErrorAs(t, err, &rtErr)
}

func TestRegistry_ArgumentContextsAreIsolated(t *testing.T) {
	rt := testutil.NewRuntime()
	rt.Register("a", &testutil.EchoGuest{Meta: meta("a"), Key: "x"})
	rt.Register("b", &testutil.EchoGuest{Meta: meta("b"), Key: "x"})

	reg := loadRegistry(t, rt, map[string]string{"a.wasm": "a", "b.wasm": "b"})
	ctx := context.Background()

	a, err := reg.Find(ctx, "a")
	require.NoError(t, err)
	b, err := reg.Find(ctx, "b")
	require.NoError(t, err)

	_, err = a.Generate(ctx, []entities.Argument{{Key: "x", Value: "for a"}})
	require.NoError(t, err)

	outcome, err := b.Generate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "<absent>", outcome.Err.Message)
}

func TestRegistry_CloseReleasesHandles(t *testing.T) {
	rt := testutil.NewRuntime()
	rt.Register("box", testutil.NewBoxGuest())
	table := hostfuncs.NewHandleTable()

	reg := loadRegistry(t, rt, map[string]string{"box.wasm": "box", "again.wasm": "box"}, host.WithHandleTable(table))
	require.Equal(t, 2, table.Len())

	require.NoError(t, reg.Close(context.Background()))
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 2, rt.Closed())
}
