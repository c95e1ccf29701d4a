package store

import (
	"strings"
	"unicode"

	"github.com/arthur-debert/sprout/pkg/errors"
)

// MaxTemplateNameLength bounds template names, measured in bytes.
const MaxTemplateNameLength = 100

// ValidateTemplateName checks a template name for storage and returns
// its trimmed form.
func ValidateTemplateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return "", errors.New(errors.ErrInvalidInput, "Template name cannot be empty")
	}
	if len(trimmed) > MaxTemplateNameLength {
		return "", errors.Newf(errors.ErrInvalidInput,
			"Template name cannot exceed %d characters (got %d)", MaxTemplateNameLength, len(trimmed))
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", errors.New(errors.ErrInvalidInput, "Template name cannot contain control characters")
		}
	}
	return trimmed, nil
}

// validVersion accepts export file versions of the form "1.x" or
// "1.x.y" where x and y are digit runs.
func validVersion(version string) bool {
	if len(version) < 3 || version[0] != '1' || version[1] != '.' {
		return false
	}

	hasDigit := false
	seenDot := false
	for i, r := range version[2:] {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '.':
			if i == 0 || seenDot {
				return false
			}
			seenDot = true
			hasDigit = false
		default:
			return false
		}
	}
	return hasDigit
}
