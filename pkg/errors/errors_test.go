// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code lookup

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/carton/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "module_offline_error",
			code:    errors.ErrModuleOffline,
			message: "module 'config' is not loaded",
			wantStr: "[MODULE_OFFLINE] module 'config' is not loaded",
		},
		{
			name:    "resource_free_error",
			code:    errors.ErrResourceFree,
			message: "resource 'carton.json' is not locked",
			wantStr: "[RESOURCE_FREE] resource 'carton.json' is not locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		format  string
		args    []interface{}
		wantMsg string
	}{
		{
			name:    "format_with_string",
			code:    errors.ErrCommandNotFound,
			format:  "command '%s' not found",
			args:    []interface{}{"unpack"},
			wantMsg: "command 'unpack' not found",
		},
		{
			name:    "format_with_multiple_args",
			code:    errors.ErrResourceLocked,
			format:  "resource '%s' is owned by '%s'",
			args:    []interface{}{"links.json", "packer"},
			wantMsg: "resource 'links.json' is owned by 'packer'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.Newf(tt.code, tt.format, tt.args...)

			if err.Message != tt.wantMsg {
				t.Errorf("Newf() message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrInternal, "internal error")

		if err.Code != errors.ErrInternal {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrInternal)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[INTERNAL] internal error: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})
}

func TestWithDetails(t *testing.T) {
	err := errors.New(errors.ErrResourceLocked, "locked").
		WithDetail("resource", "carton.json").
		WithDetails(map[string]interface{}{"owner": "config"})

	details := errors.GetErrorDetails(err)
	if details["resource"] != "carton.json" {
		t.Errorf("resource detail = %v, want carton.json", details["resource"])
	}
	if details["owner"] != "config" {
		t.Errorf("owner detail = %v, want config", details["owner"])
	}

	if errors.GetErrorDetails(stderrors.New("plain")) != nil {
		t.Error("GetErrorDetails() should be nil for non-carton errors")
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrModuleOffline, "error 1")
	err2 := errors.New(errors.ErrModuleOffline, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	t.Run("same_code_is_equal", func(t *testing.T) {
		if !err1.Is(err2) {
			t.Error("Is() should return true for same code")
		}
	})

	t.Run("different_code_not_equal", func(t *testing.T) {
		if err1.Is(err3) {
			t.Error("Is() should return false for different codes")
		}
	})

	t.Run("works_with_errors_Is", func(t *testing.T) {
		if !stderrors.Is(err1, err2) {
			t.Error("errors.Is() should work with CartonError")
		}
	})
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrResourceFree, "free"),
			code:     errors.ErrResourceFree,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrResourceFree, "free"),
			code:     errors.ErrResourceLocked,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("base"), errors.ErrCorruptState, "bad json"),
			code:     errors.ErrCorruptState,
			expected: true,
		},
		{
			name:     "non_carton_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{
			name:     "carton_error",
			err:      errors.New(errors.ErrModuleAlreadyLoaded, "loaded"),
			expected: errors.ErrModuleAlreadyLoaded,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			expected: errors.ErrUnknown,
		},
		{
			name:     "nil_error",
			err:      nil,
			expected: errors.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrFileAccess, "cannot read file")
	stateErr := errors.Wrap(fileErr, errors.ErrCorruptState, "failed to load state")

	t.Run("top_level_has_correct_code", func(t *testing.T) {
		if !errors.IsErrorCode(stateErr, errors.ErrCorruptState) {
			t.Error("Top level should have ErrCorruptState code")
		}
	})

	t.Run("can_find_middle_error", func(t *testing.T) {
		var cartonErr *errors.CartonError
		if stderrors.As(stateErr.Unwrap(), &cartonErr) {
			if !errors.IsErrorCode(cartonErr, errors.ErrFileAccess) {
				t.Error("Middle error should have ErrFileAccess code")
			}
		}
	})

	t.Run("can_find_root_cause", func(t *testing.T) {
		if !stderrors.Is(stateErr, rootCause) {
			t.Error("Should find root cause with errors.Is")
		}
	})
}
