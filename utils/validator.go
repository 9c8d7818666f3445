package utils

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether the address has a plausible mailbox shape.
// Reviewer lookup and author rosters go through this before any query runs.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail lowercases and trims an address so reviewer lookups and stored
// author rows compare equal regardless of how the address was typed.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword checks the minimum length for account passwords.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput trims surrounding whitespace and strips null bytes from
// free-text fields before they are stored.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	return strings.ReplaceAll(input, "\x00", "")
}
