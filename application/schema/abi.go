package schema

import (
	"fmt"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/ports"
)

// payloadTypes maps each guest export to the Go type its payload decodes into.
var payloadTypes = map[string]any{
	ports.ExportOnLoad:   entities.Metadata{},
	ports.ExportGenerate: entities.GenerateResultWire{},
}

// Exports lists the guest exports that return a JSON payload, in call order.
func Exports() []string {
	return []string{ports.ExportOnLoad, ports.ExportGenerate}
}

// ExportSchema returns the JSON schema of the payload returned by export.
func ExportSchema(export string) ([]byte, error) {
	v, ok := payloadTypes[export]
	if !ok {
		return nil, fmt.Errorf("export %q returns no payload", export)
	}
	return GenerateSchema(v)
}
