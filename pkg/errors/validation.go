package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateEndpointRef checks the syntactic shape of a connection endpoint:
// either "Instance.Port" or a bare boundary-port name. Whether the reference
// resolves is a layout concern and is not checked here.
func ValidateEndpointRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidInput, "endpoint reference cannot be empty")
	}
	for _, r := range ref {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "endpoint reference %q contains whitespace or control characters", ref)
		}
	}
	parts := strings.Split(ref, ".")
	if len(parts) > 2 {
		return New(ErrCodeInvalidInput, "endpoint reference %q has more than one separator", ref)
	}
	for _, p := range parts {
		if p == "" {
			return New(ErrCodeInvalidInput, "endpoint reference %q has an empty part", ref)
		}
	}
	return nil
}

// ValidateScale checks an explicit scale override. Zero means "resolve
// automatically" and is accepted.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return New(ErrCodeInvalidScale, "scale must be a finite number")
	}
	if scale < 0 {
		return New(ErrCodeInvalidScale, "scale must not be negative (got %g)", scale)
	}
	return nil
}

// ValidateOutputPath validates a relative output path produced by batch
// conversion. It prevents writes outside the output directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths
//   - No path traversal sequences (..)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must be relative")
	}

	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
