package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters"

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, 7*24*time.Hour)

	token, err := m.Generate("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	issuer := NewJWTManager(testSecret, time.Hour)
	verifier := NewJWTManager("another-secret-that-is-also-32-characters!", time.Hour)

	token, err := issuer.Generate("user-42")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err, "rotating the secret invalidates outstanding tokens")
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager(testSecret, -time.Hour)

	token, err := m.Generate("user-42")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestJWTManager_Malformed(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Validate(token)
		assert.Error(t, err)
	}
}
