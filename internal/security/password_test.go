package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "password123"
	hashed, err := HashPassword(password)

	require.NoError(t, err)
	assert.NotEmpty(t, hashed)
	assert.NotEqual(t, password, hashed)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("password123")
	require.NoError(t, err)
	b, err := HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hashed, "password123"))
	assert.False(t, CheckPassword(hashed, "password124"))
	assert.False(t, CheckPassword(hashed, ""))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("invalidhash", "password123"))
	assert.False(t, CheckPassword("", "password123"))
	assert.False(t, CheckPassword("password123", "password123"))
}

func TestBurnCompare(t *testing.T) {
	assert.False(t, BurnCompare("anything"))
}

func TestHashPassword_TooLong(t *testing.T) {
	// 25 three-byte runes pass a 72 character limit but not bcrypt's 72 bytes
	_, err := HashPassword(strings.Repeat("€", 25))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
