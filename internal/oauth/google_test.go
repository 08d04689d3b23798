package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleVerifier_UserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"12345","email":"alice@example.com","name":"Alice","picture":"https://example.com/a.png"}`))
	}))
	defer server.Close()

	v := NewGoogleVerifier(server.URL, 5*time.Second)

	info, err := v.UserInfo(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "12345", info.Sub)
	assert.Equal(t, "alice@example.com", info.Email)
	assert.Equal(t, "Alice", info.Name)
	assert.Equal(t, "https://example.com/a.png", info.Picture)
}

func TestGoogleVerifier_RejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	v := NewGoogleVerifier(server.URL, 5*time.Second)

	_, err := v.UserInfo(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrTokenRejected)
}

func TestGoogleVerifier_SlowProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	v := NewGoogleVerifier(server.URL, 20*time.Millisecond)

	_, err := v.UserInfo(context.Background(), "any-token")
	assert.ErrorIs(t, err, ErrTokenRejected, "a timeout reads as a rejected token")
}
