package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("user-1", RoleStudent, secret, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := GetUserFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, RoleStudent, role)
}

func TestGetUserFromToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", RoleTeacher, []byte("correct"), time.Minute)
	require.NoError(t, err)

	_, _, err = GetUserFromToken(token, []byte("wrong"))
	assert.Error(t, err)
}

func TestGetUserFromToken_Expired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("user-1", RoleParent, secret, -time.Minute)
	require.NoError(t, err)

	_, _, err = GetUserFromToken(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestGetUserFromToken_Garbage(t *testing.T) {
	_, _, err := GetUserFromToken("not.a.token", []byte("test-secret"))
	assert.Error(t, err)
}
