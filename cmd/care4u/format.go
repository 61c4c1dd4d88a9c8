// ABOUTME: Small text helpers shared by the CLI commands.
// ABOUTME: Truncation, padding, short IDs and title casing.
package main

import (
	"strings"
	"unicode/utf8"
)

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// titleCase turns "morning" into "Morning".
func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
