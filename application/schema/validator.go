package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fornjot/modelhost/domain/ports"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PayloadValidator checks guest payloads against the schemas from ExportSchema.
type PayloadValidator struct {
	schemas map[string]*jsonschema.Schema
}

var _ ports.PayloadValidator = (*PayloadValidator)(nil)

// NewPayloadValidator compiles the schema of every payload-returning export.
func NewPayloadValidator() (*PayloadValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	v := &PayloadValidator{schemas: make(map[string]*jsonschema.Schema)}
	for _, export := range Exports() {
		raw, err := ExportSchema(export)
		if err != nil {
			return nil, err
		}
		url := export + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("failed to add schema for %s: %w", export, err)
		}
		sch, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for %s: %w", export, err)
		}
		v.schemas[export] = sch
	}
	return v, nil
}

// ValidatePayload implements ports.PayloadValidator.
// Exports without a schema are accepted unchecked.
func (v *PayloadValidator) ValidatePayload(export string, payload []byte) error {
	sch, ok := v.schemas[export]
	if !ok {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("payload of %s is not JSON: %w", export, err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("payload of %s does not match its schema: %w", export, err)
	}
	return nil
}
