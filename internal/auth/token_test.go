package auth_test

import (
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/request-service/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("secret", 5)
	token, exp, err := tm.GenerateToken("user-1", "u1@example.org")
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "u1@example.org", claims.Email)
}

func TestTokenRejectsForeignSecret(t *testing.T) {
	token, _, err := auth.NewTokenManager("one", 5).GenerateToken("user-1", "")
	require.NoError(t, err)

	_, err = auth.NewTokenManager("two", 5).ParseToken(token)
	assert.Error(t, err)
}

func TestTokenRejectsOtherSigningMethod(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "user-1"})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret", 5).ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(hash, "s3cret"))
	assert.Error(t, auth.ComparePassword(hash, "wrong"))
}
