package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetURL(t *testing.T) {
	m := NewSMTPMailer("localhost", 1025, "", "", "Test <test@example.com>", "https://app.example.com")

	assert.Equal(t,
		"https://app.example.com/reset-password?token=abc123",
		m.resetURL("abc123"),
	)
}

func TestResetEmailBody(t *testing.T) {
	body := resetEmailBody("https://app.example.com/reset-password?token=abc123")

	assert.Equal(t, 2, strings.Count(body, "https://app.example.com/reset-password?token=abc123"),
		"link appears in the button and the plain fallback")
	assert.Contains(t, body, "expires in <strong>1 hour</strong>")
	assert.Contains(t, body, "you can safely ignore this email")
}
