//go:build !wasip1

package schema

import (
	"encoding/json"
	"testing"

	"github.com/fornjot/modelhost/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSchema_Metadata(t *testing.T) {
	raw, err := ExportSchema(ports.ExportOnLoad)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	properties, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok, "properties should be a map")
	assert.Contains(t, properties, "name")
	assert.Contains(t, properties, "version")
	assert.Contains(t, properties, "description")

	required, ok := decoded["required"].([]interface{})
	require.True(t, ok, "required should be an array")
	assert.ElementsMatch(t, []interface{}{"name", "version"}, required)
}

func TestExportSchema_GenerateResult(t *testing.T) {
	raw, err := ExportSchema(ports.ExportGenerate)
	require.NoError(t, err)

	schemaStr := string(raw)
	assert.Contains(t, schemaStr, `"tag"`)
	assert.Contains(t, schemaStr, `"shape"`)
	assert.Contains(t, schemaStr, `"vertices"`)
	assert.Contains(t, schemaStr, `"faces"`)
	assert.Contains(t, schemaStr, `"message"`)
}

func TestExportSchema_Unknown(t *testing.T) {
	_, err := ExportSchema("memory")
	assert.Error(t, err)
}

func TestExports(t *testing.T) {
	assert.Equal(t, []string{ports.ExportOnLoad, ports.ExportGenerate}, Exports())
}
