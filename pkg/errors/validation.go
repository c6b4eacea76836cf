package errors

import (
	"strings"
	"unicode"
)

// maxKeyLength bounds object and property keys.
const maxKeyLength = 256

// ValidateObjectKey validates the key of a sheet object.
//
// Object keys are free-form display names ("Box / Lid" is fine) but must be
// non-empty, bounded, and free of control characters.
func ValidateObjectKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "object key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "object key too long (max %d characters)", maxKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "object key contains invalid control characters")
		}
	}
	return nil
}

// ValidatePropKey validates one segment of a property path.
//
// Property keys are identifiers: a letter or underscore followed by letters,
// digits or underscores. Dots are rejected because paths are displayed
// dot-joined.
func ValidatePropKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "prop key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "prop key too long (max %d characters)", maxKeyLength)
	}
	for i, r := range key {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return New(ErrCodeInvalidKey, "prop key %q contains invalid character %q", key, r)
		}
	}
	return nil
}

// ValidatePath validates a file path given on the command line or in a
// config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsFunc(path, unicode.IsControl) {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}

	return nil
}
