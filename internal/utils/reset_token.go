package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const resetTokenBytes = 32

// NewResetToken generates a cryptographically random reset token. The
// plaintext is mailed to the user; only the digest is ever stored.
func NewResetToken() (plaintext, digest string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	plaintext = hex.EncodeToString(buf)
	return plaintext, HashResetToken(plaintext), nil
}

// HashResetToken returns the deterministic one-way digest of a reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
