package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", SanitizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "bob@example.com", SanitizeEmail("bob@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword(""))
	assert.False(t, ValidatePassword("12345"))
	assert.True(t, ValidatePassword("123456"))
	assert.True(t, ValidatePassword("a much longer password"))
}
