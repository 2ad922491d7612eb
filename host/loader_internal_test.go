package host

import (
	"bytes"
	"context"
	stdErrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fornjot/modelhost/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_IncompleteListingKeepsListedEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "box.wasm"), []byte("box"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "later.wasm"), []byte("box"), 0o600))

	orig := readDir
	t.Cleanup(func() { readDir = orig })
	readDir = func(f *os.File) ([]os.DirEntry, error) {
		entries, err := f.ReadDir(1)
		require.NoError(t, err)
		return entries, stdErrors.New("getdents: input/output error")
	}

	runtime := testutil.NewRuntime()
	runtime.Register("box", testutil.NewBoxGuest())

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg, err := NewLoader(runtime, WithLogger(logger)).Load(ctx, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close(ctx) })

	assert.Equal(t, 1, reg.Len())
	assert.Contains(t, buf.String(), "Directory listing incomplete")
	assert.Contains(t, buf.String(), "input/output error")
}
