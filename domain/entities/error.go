package entities

import "fmt"

// GuestError is the typed error a model returns from generate when its own logic
// declines to produce a shape (missing or unparsable argument, etc.).
// It is data, not a host failure.
type GuestError struct {
	Message string `json:"message" jsonschema:"required"`
}

// Error implements the error interface.
func (e *GuestError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// ErrorDetail provides structured error information for reporting host failures.
// Types: "io", "compile", "instantiation", "runtime", "not_found", "argument", "internal"
type ErrorDetail struct {
	// Message is a human-readable error description.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Code is a machine-readable error code, usually the file, export or name involved.
	Code string `json:"code,omitempty"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	return msg
}

// NewErrorDetail creates a new ErrorDetail with the given type and message.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{
		Type:    errorType,
		Message: message,
	}
}
