package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIOError(t *testing.T) {
	err := &IOError{Path: "models/box.wasm", Err: fs.ErrPermission}

	assert.Equal(t, `unable to read "models/box.wasm": permission denied`, err.Error())
	assert.True(t, errors.Is(err, fs.ErrPermission))

	var ioErr *IOError
	require.True(t, errors.As(fmt.Errorf("load: %w", err), &ioErr))
	assert.Equal(t, "models/box.wasm", ioErr.Path)
}

func TestCompileError(t *testing.T) {
	baseErr := fmt.Errorf("invalid magic number")
	err := &CompileError{Path: "bad.wasm", Err: baseErr}

	assert.Equal(t, `unable to compile "bad.wasm": invalid magic number`, err.Error())
	assert.True(t, errors.Is(err, baseErr))
}

func TestInstantiationError(t *testing.T) {
	baseErr := fmt.Errorf("module[env] not instantiated")
	err := &InstantiationError{Path: "needs-env.wasm", Err: baseErr}

	assert.Contains(t, err.Error(), "unable to instantiate")
	assert.True(t, errors.Is(err, baseErr))
}

func TestRuntimeError(t *testing.T) {
	t.Run("with model", func(t *testing.T) {
		err := &RuntimeError{Model: "box.wasm", Export: "generate", Err: ErrMalformedResult}
		assert.Equal(t, `call to generate in "box.wasm" failed: malformed result`, err.Error())
		assert.True(t, errors.Is(err, ErrMalformedResult))
	})

	t.Run("without model", func(t *testing.T) {
		err := &RuntimeError{Export: "on_load", Err: fmt.Errorf("unreachable")}
		assert.Equal(t, "call to on_load failed: unreachable", err.Error())
	})
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Name: "nonexistent"}
	assert.Equal(t, `model "nonexistent" not found`, err.Error())
}

func TestArgumentError(t *testing.T) {
	err := &ArgumentError{Token: "width", Reason: "expected a key=value pair"}
	assert.Equal(t, `invalid argument "width": expected a key=value pair`, err.Error())
}

func TestToErrorDetail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
		wantCode string
	}{
		{"io", &IOError{Path: "dir", Err: fs.ErrNotExist}, "io", "dir"},
		{"compile", &CompileError{Path: "a.wasm", Err: errors.New("x")}, "compile", "a.wasm"},
		{"instantiation", &InstantiationError{Path: "a.wasm", Err: errors.New("x")}, "instantiation", "a.wasm"},
		{"runtime", &RuntimeError{Export: "generate", Err: errors.New("x")}, "runtime", "generate"},
		{"not found", &NotFoundError{Name: "box"}, "not_found", "box"},
		{"argument", &ArgumentError{Token: "w", Reason: "r"}, "argument", "w"},
		{"wrapped", fmt.Errorf("outer: %w", &NotFoundError{Name: "box"}), "not_found", "box"},
		{"generic", errors.New("boom"), "internal", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := ToErrorDetail(tt.err)
			require.NotNil(t, detail)
			assert.Equal(t, tt.wantType, detail.Type)
			assert.Equal(t, tt.wantCode, detail.Code)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToErrorDetail(nil))
	})

	t.Run("detail passthrough", func(t *testing.T) {
		d := entities.NewErrorDetail("io", "gone")
		assert.Same(t, d, ToErrorDetail(fmt.Errorf("wrap: %w", d)))
	})
}
