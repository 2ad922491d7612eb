package entities

// Outcome is the decoded result of a generate invocation: exactly one of Shape
// and Err is set.
type Outcome struct {
	// Shape is set when the model produced geometry.
	Shape *Shape

	// Err is set when the model returned a typed error.
	Err *GuestError
}

// OutcomeShape creates a successful Outcome.
func OutcomeShape(s *Shape) Outcome {
	return Outcome{Shape: s}
}

// OutcomeError creates an Outcome carrying the model's typed error.
func OutcomeError(message string) Outcome {
	return Outcome{Err: &GuestError{Message: message}}
}

// Failed reports whether the model returned a typed error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}
