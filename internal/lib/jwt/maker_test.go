package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_RoundTrip(t *testing.T) {
	maker := NewMaker("test-secret-key", time.Hour)

	token, err := maker.GenerateToken("user_123", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_123", claims.UserUID)
	assert.Equal(t, "admin", claims.Role)
}

func TestMaker_WrongKey(t *testing.T) {
	maker := NewMaker("test-secret-key", time.Hour)
	other := NewMaker("another-secret-key", time.Hour)

	token, err := maker.GenerateToken("user_123", "user")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_ExpiredToken(t *testing.T) {
	maker := NewMaker("test-secret-key", -time.Minute)

	token, err := maker.GenerateToken("user_123", "user")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_Garbage(t *testing.T) {
	maker := NewMaker("test-secret-key", time.Hour)

	_, err := maker.ParseToken("not.a.token")
	assert.Error(t, err)
}
