package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier from an untrusted document.
// IDs are used as map keys and appear in link records, so the rules are
// intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeMalformedDocument, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeMalformedDocument, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedDocument, "node id contains control characters")
		}
	}

	return nil
}

// typeNameRegex matches canonical node-class identifiers such as
// "ShaderNodeMath" or "GeometryNodeMeshCube".
var typeNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.]*$`)

// ValidateTypeName validates a node-class identifier.
// The host decides whether the type is actually instantiable; this only
// rejects strings that cannot possibly be a class identifier.
func ValidateTypeName(name string) error {
	if name == "" {
		return New(ErrCodeMalformedDocument, "node type cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeMalformedDocument, "node type too long (max 128 characters)")
	}

	if !typeNameRegex.MatchString(name) {
		return New(ErrCodeMalformedDocument, "invalid node type: %q", name)
	}

	return nil
}

// ValidatePropertyName validates a property or socket name from a document.
// Socket names may contain spaces ("Base Color") but never control
// characters or path-like sequences.
func ValidatePropertyName(name string) error {
	if name == "" {
		return New(ErrCodeMalformedDocument, "property name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeMalformedDocument, "property name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedDocument, "property name contains control characters")
		}
	}

	if strings.Contains(name, "\x00") {
		return New(ErrCodeMalformedDocument, "property name contains null bytes")
	}

	return nil
}

// ValidateStoreKey validates a document store key.
// Keys become file names in the file backend, so path components are
// rejected outright.
func ValidateStoreKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "document key cannot be empty")
	}

	if len(key) > 128 {
		return New(ErrCodeInvalidInput, "document key too long (max 128 characters)")
	}

	if strings.ContainsAny(key, "/\\") {
		return New(ErrCodeInvalidInput, "document key cannot contain path separators")
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidInput, "document key cannot contain path traversal sequences")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "document key contains control characters")
		}
	}

	return nil
}
