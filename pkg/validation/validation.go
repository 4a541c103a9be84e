package validation

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)
)

// IsEmail reports whether the value looks like a deliverable email address.
// The same predicate gates registration and checkout contact forms.
func IsEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

// IsPhone reports whether the value looks like a dialable phone number.
func IsPhone(value string) bool {
	return phonePattern.MatchString(strings.TrimSpace(value))
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
