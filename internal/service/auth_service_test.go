package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/request-service/internal/config"
	"github.com/spec-kit/request-service/internal/domain"
	"github.com/spec-kit/request-service/internal/service"
	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

func newAuthService(users *memUsers) *service.AuthService {
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4}}
	return service.NewAuthService(cfg, users)
}

func TestRegisterAndLogin(t *testing.T) {
	users := newMemUsers()
	svc := newAuthService(users)

	user, token, _, err := svc.Register(context.Background(), "Bob", " Bob@Example.org ", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.org", user.Email)
	assert.NotEqual(t, "hunter2", user.PasswordHash)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())

	loggedIn, _, _, err := svc.Login(context.Background(), "bob@example.org", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(newMemUsers())
	_, _, _, err := svc.Register(context.Background(), "Bob", "bob@example.org", "pw")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Bob", "bob@example.org", "pw")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestLoginFailures(t *testing.T) {
	users := newMemUsers()
	svc := newAuthService(users)
	user, _, _, err := svc.Register(context.Background(), "Bob", "bob@example.org", "pw")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "bob@example.org", "wrong")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, _, _, err = svc.Login(context.Background(), "nobody@example.org", "pw")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	user.Status = domain.UserStatusSuspended
	_, _, _, err = svc.Login(context.Background(), "bob@example.org", "pw")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}
