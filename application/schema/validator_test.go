//go:build !wasip1

package schema

import (
	"testing"

	"github.com/fornjot/modelhost/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadValidator(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		export  string
		payload string
		valid   bool
	}{
		{"metadata", ports.ExportOnLoad, `{"name":"box","version":"0.1.0","description":"A box"}`, true},
		{"metadata without description", ports.ExportOnLoad, `{"name":"box","version":"0.1.0"}`, true},
		{"metadata with extra field", ports.ExportOnLoad, `{"name":"box","version":"0.1.0","author":"me"}`, true},
		{"metadata without version", ports.ExportOnLoad, `{"name":"box"}`, false},
		{"metadata with empty name", ports.ExportOnLoad, `{"name":"","version":"1"}`, false},
		{"metadata not an object", ports.ExportOnLoad, `"box"`, false},
		{"shape", ports.ExportGenerate, `{"tag":"ok","shape":{"vertices":[{"x":0,"y":0,"z":0}],"faces":[[0,0,0]]}}`, true},
		{"typed error", ports.ExportGenerate, `{"tag":"err","error":{"message":"nope"}}`, true},
		{"unknown tag", ports.ExportGenerate, `{"tag":"maybe"}`, false},
		{"missing tag", ports.ExportGenerate, `{"error":{"message":"nope"}}`, false},
		{"short face", ports.ExportGenerate, `{"tag":"ok","shape":{"vertices":[],"faces":[[0,1]]}}`, false},
		{"vertex coordinate missing", ports.ExportGenerate, `{"tag":"ok","shape":{"vertices":[{"x":0,"y":0}],"faces":[]}}`, false},
		{"not json", ports.ExportGenerate, `{"tag":`, false},
		{"export without schema", "other", `anything`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePayload(tt.export, []byte(tt.payload))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
