package utils

import "strings"

// Clean trims surrounding whitespace from form input.
func Clean(s string) string {
	return strings.TrimSpace(s)
}

// ClockPrefix returns the HH:MM part of a time value such as "09:30:00".
func ClockPrefix(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 5 && s[5] == ':' {
		return s[:5]
	}
	return s
}

// NewNullString is a helper for string pointers, returning nil if string is empty.
// Useful for fields that are optional and should be NULL in DB if not provided.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
