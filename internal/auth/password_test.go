package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/request-service/internal/auth"
)

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := auth.HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, auth.ComparePassword(hashed, "hunter2"))
	assert.ErrorIs(t, auth.ComparePassword(hashed, "hunter3"), auth.ErrPasswordMismatch)
	assert.Error(t, auth.ComparePassword("not-a-hash", "hunter2"))
}

func TestHashPasswordClampsCost(t *testing.T) {
	hashed, err := auth.HashPassword("hunter2", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
