package ports

// PayloadValidator checks the raw JSON a guest export returned against the ABI
// schema for that export.
type PayloadValidator interface {
	// ValidatePayload returns an error describing the first violation, or nil.
	ValidatePayload(export string, payload []byte) error
}
