package errors

import (
	"unicode"
	"unicode/utf8"
)

// MaxNodeNameLength bounds node identifiers accepted from snapshots.
const MaxNodeNameLength = 256

// ValidateNodeName checks that a node identifier is safe to embed in DOT
// output and in file-derived labels.
//
// Rules:
//   - No empty names
//   - Valid UTF-8
//   - No control characters (newlines would break DOT statements)
//   - Maximum length of [MaxNodeNameLength] bytes
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSnapshot, "node name cannot be empty")
	}

	if len(name) > MaxNodeNameLength {
		return New(ErrCodeInvalidSnapshot, "node name too long (max %d characters)", MaxNodeNameLength)
	}

	if !utf8.ValidString(name) {
		return New(ErrCodeInvalidSnapshot, "node name is not valid UTF-8")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSnapshot, "node name %q contains control characters", name)
		}
	}

	return nil
}
