package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256Hex(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256Hex(""))
	assert.Len(t, SHA256Hex("material"), 64)
}

func TestPassword_RoundTrip(t *testing.T) {
	hashed, err := HashPassword("teacher123")
	assert.NoError(t, err)
	assert.True(t, CheckPassword(hashed, "teacher123"))
	assert.False(t, CheckPassword(hashed, "wrong"))
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("abc")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.False(t, CheckPassword("", "anything"))
}
