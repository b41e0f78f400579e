package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeShapeMismatch, "expected %d components, got %d", 3, 2)

	if err.Code != ErrCodeShapeMismatch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeShapeMismatch)
	}

	if err.Message != "expected 3 components, got 2" {
		t.Errorf("Message = %v, want %v", err.Message, "expected 3 components, got 2")
	}

	expected := "SHAPE_MISMATCH: expected 3 components, got 2"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeMalformedDocument, cause, "decode document")

	if err.Code != ErrCodeMalformedDocument {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMalformedDocument)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeAliasNotFound, "test"),
			code:     ErrCodeAliasNotFound,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeAliasNotFound, "test"),
			code:     ErrCodeDanglingLink,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeLinkRejected, New(ErrCodeShapeMismatch, "inner"), "outer"),
			code:     ErrCodeLinkRejected,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeAliasNotFound,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeAliasNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeUnknownNodeType, "test"),
			expected: ErrCodeUnknownNodeType,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeAssetNotFound, "material not found"),
			expected: "material not found",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"malformed document", New(ErrCodeMalformedDocument, "bad json"), true},
		{"unsupported version", New(ErrCodeUnsupportedVersion, "version 9"), true},
		{"unknown node type", New(ErrCodeUnknownNodeType, "NoSuchNode"), false},
		{"dangling link", New(ErrCodeDanglingLink, "missing endpoint"), false},
		{"plain error", errors.New("plain"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.expected {
				t.Errorf("IsFatal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeMalformedDocument,
		ErrCodeUnsupportedVersion,
		ErrCodeUnknownNodeType,
		ErrCodeDanglingLink,
		ErrCodeLinkRejected,
		ErrCodePropertyRejected,
		ErrCodeShapeMismatch,
		ErrCodeAliasNotFound,
		ErrCodeAssetNotFound,
		ErrCodeInvalidInput,
		ErrCodeNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
