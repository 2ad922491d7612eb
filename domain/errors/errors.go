// Package errors provides the host's fatal error taxonomy.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/fornjot/modelhost/domain/entities"
)

// ErrMalformedResult is wrapped by RuntimeError when a guest returns a payload that
// does not follow the ABI (null pointer, bad JSON, unknown tag, out-of-range face).
var ErrMalformedResult = stdErrors.New("malformed result")

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
// This function recognizes custom error types and categorizes them appropriately.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// IOError represents a directory or file that could not be read.
type IOError struct {
	Err  error
	Path string
}

func (e *IOError) Error() string {
	return fmt.Sprintf("unable to read %q: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *IOError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "io", Code: e.Path}
}

// CompileError represents a binary the sandbox rejected, either because it is not
// valid or because it does not match the host's import/export interface.
type CompileError struct {
	Err  error
	Path string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("unable to compile %q: %v", e.Path, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CompileError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "compile", Code: e.Path}
}

// InstantiationError represents a compiled module whose imports could not be satisfied.
type InstantiationError struct {
	Err  error
	Path string
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("unable to instantiate %q: %v", e.Path, e.Err)
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *InstantiationError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "instantiation", Code: e.Path}
}

// RuntimeError represents a sandbox trap, or a result that violates the ABI,
// during a call into a guest export. It is always fatal and is never confused with
// the guest's own typed error.
type RuntimeError struct {
	Err    error
	Model  string
	Export string
}

func (e *RuntimeError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("call to %s in %q failed: %v", e.Export, e.Model, e.Err)
	}
	return fmt.Sprintf("call to %s failed: %v", e.Export, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *RuntimeError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "runtime", Code: e.Export}
}

// NotFoundError represents a model name no loaded model answers to.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model %q not found", e.Name)
}

// ToErrorDetail implements DetailedError.
func (e *NotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "not_found", Code: e.Name}
}

// ArgumentError represents a malformed key=value token.
type ArgumentError struct {
	Token  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Token, e.Reason)
}

// ToErrorDetail implements DetailedError.
func (e *ArgumentError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "argument", Code: e.Token}
}
