package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	plaintext, digest, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, plaintext, 64, "32 random bytes, hex encoded")
	assert.NotEqual(t, plaintext, digest)
	assert.Equal(t, HashResetToken(plaintext), digest)

	plaintext2, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, plaintext2)
}

func TestHashResetToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashResetToken("abc"), HashResetToken("abc"))
	assert.NotEqual(t, HashResetToken("abc"), HashResetToken("abd"))
	assert.Len(t, HashResetToken("abc"), 64)
}
