// Package util provides shared utility functions used across the codebase.
package util

import (
	"strings"
	"unicode"
)

// SplitCSV splits a comma-separated string into a slice, trimming whitespace.
// Returns nil for empty strings.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// SanitizeIdentifier converts an arbitrary column or table name into a
// SQL-friendly lowercase identifier. Characters outside letters, digits,
// and underscore become underscores; a leading digit gets a col_ prefix.
// Example: VoteTypes -> votetypes, User-Id -> user_id, 2021 -> col_2021.
func SanitizeIdentifier(ident string) string {
	if ident == "" {
		return "col_"
	}
	s := strings.ToLower(ident)
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	s = sb.String()
	if len(s) > 0 && unicode.IsDigit(rune(s[0])) {
		s = "col_" + s
	}
	if s == "" {
		return "col_"
	}
	return s
}
