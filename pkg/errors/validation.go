package errors

import (
	"strings"
	"unicode"
)

// maxPathLength bounds project-relative paths accepted from manifests and requests.
const maxPathLength = 500

// ValidatePath validates a project-relative file or directory path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
//   - No empty path elements (//) and no trailing slash
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /): %q", path)
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes: %q", path)
	}

	for _, elem := range strings.Split(path, "/") {
		switch elem {
		case "":
			return New(ErrCodeInvalidPath, "path contains an empty element: %q", path)
		case ".", "..":
			return New(ErrCodeInvalidPath, "path cannot contain relative elements (. or ..): %q", path)
		}
	}

	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
