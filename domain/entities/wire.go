package entities

import "fmt"

// ResultTag discriminates the generate result on the wire.
type ResultTag string

const (
	// ResultTagOK marks a result carrying a Shape.
	ResultTagOK ResultTag = "ok"

	// ResultTagErr marks a result carrying a GuestError.
	ResultTagErr ResultTag = "err"
)

// GenerateResultWire is the JSON wire format returned by the guest's generate export:
// a discriminant plus either a success payload or an error payload.
type GenerateResultWire struct {
	Shape *Shape      `json:"shape,omitempty"`
	Error *GuestError `json:"error,omitempty"`
	Tag   ResultTag   `json:"tag" jsonschema:"required,enum=ok,enum=err"`
}

// Outcome decodes the wire value into an Outcome.
// The payload must match the tag; anything else is a malformed result.
func (w GenerateResultWire) Outcome() (Outcome, error) {
	switch w.Tag {
	case ResultTagOK:
		if w.Shape == nil {
			return Outcome{}, fmt.Errorf("result tagged %q carries no shape", w.Tag)
		}
		if w.Error != nil {
			return Outcome{}, fmt.Errorf("result tagged %q also carries an error", w.Tag)
		}
		return OutcomeShape(w.Shape), nil
	case ResultTagErr:
		if w.Error == nil {
			return Outcome{}, fmt.Errorf("result tagged %q carries no error", w.Tag)
		}
		if w.Shape != nil {
			return Outcome{}, fmt.Errorf("result tagged %q also carries a shape", w.Tag)
		}
		return Outcome{Err: w.Error}, nil
	default:
		return Outcome{}, fmt.Errorf("unknown result tag %q", w.Tag)
	}
}

// GenerateResultFromOutcome encodes an Outcome into its wire form.
// Guests written in Go and the test fakes use it.
func GenerateResultFromOutcome(o Outcome) GenerateResultWire {
	if o.Err != nil {
		return GenerateResultWire{Tag: ResultTagErr, Error: o.Err}
	}
	return GenerateResultWire{Tag: ResultTagOK, Shape: o.Shape}
}
