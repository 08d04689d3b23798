package utils

import "strings"

// MinPasswordLength is the minimum accepted password length for registration
// and password reset.
const MinPasswordLength = 6

// ValidatePassword validates a password
func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// SanitizeEmail normalizes an email address for storage and lookup. Email
// uniqueness is case-insensitive, so every address is lowercased and trimmed
// before it touches the database.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
