package host_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/stretchr/testify/require"
)

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func meta(name string) entities.Metadata {
	return entities.Metadata{Name: name, Version: "1.0.0", Description: name + " model"}
}
