// Package validation provides field-level form validators. Violation
// values are i18n codes, translated by the view layer.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MaxLen(field, value string, max int, v Violations) {
	if utf8.RuneCountInString(value) > max {
		v[field] = "too_long"
	}
}

// Slug checks the URL-segment character set. Empty values are left to
// Required so the form shows one error per field.
func Slug(field, value string, v Violations) {
	if value == "" {
		return
	}
	if !slugRe.MatchString(value) {
		v[field] = "invalid_slug"
	}
}
