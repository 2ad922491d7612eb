package entities

// Metadata identifies a model. It is produced once by the guest's on_load export
// and never changes afterwards.
type Metadata struct {
	// Name identifies the model to the CLI by exact match.
	Name string `json:"name" validate:"required" jsonschema:"required,minLength=1"`

	// Description is a short human-readable summary.
	Description string `json:"description"`

	// Version is the model's own version string.
	Version string `json:"version" validate:"required" jsonschema:"required,minLength=1"`
}
