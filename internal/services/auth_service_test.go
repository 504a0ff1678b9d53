package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexportal_backend/internal/auth"
	"lexportal_backend/internal/cache"
	"lexportal_backend/internal/config"
	"lexportal_backend/internal/models"
	"lexportal_backend/internal/security"
	"lexportal_backend/internal/services/dto"
	"lexportal_backend/pkg/apperrors"
)

type authFixture struct {
	service AuthService
	users   *fakeUserRepo
	audit   *auditSpy
}

func newAuthFixture(t *testing.T, maxFails int) *authFixture {
	t.Helper()

	cfg := testConfig()
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg

	users := newFakeUserRepo()
	audit := &auditSpy{}
	lockout := security.NewLoginLockout(cache.NewMemoryCache(), 15*time.Minute, maxFails)
	service := NewAuthService(users, audit, lockout)

	hash, err := auth.HashPassword("correct horse battery")
	require.NoError(t, err)
	require.NoError(t, users.Create(&models.User{
		Username:      "alice",
		Email:         "alice@example.com",
		PasswordHash:  hash,
		Role:          models.UserRoleClient,
		AccountStatus: models.AccountStatusActive,
	}))

	return &authFixture{service: service, users: users, audit: audit}
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t, 6)

	resp, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	}, "10.0.0.1", AuditContext{})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Len(t, resp.RefreshToken, 64)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, 1, f.audit.count(models.AuditAuthLogin))
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t, 6)

	_, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Username: "alice",
		Password: "wrong",
	}, "10.0.0.1", AuditContext{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, 1, f.audit.count(models.AuditAuthFailed))
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	f := newAuthFixture(t, 6)

	_, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Username: "nobody",
		Password: "whatever",
	}, "10.0.0.1", AuditContext{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "unknown user and wrong password are indistinguishable")
}

func TestLogin_LockoutBlocksBeforeCredentials(t *testing.T) {
	f := newAuthFixture(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.service.Login(ctx, &dto.LoginRequest{
			Username: "alice",
			Password: "wrong",
		}, "10.0.0.1", AuditContext{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	// The pair is now locked: even the right password is refused.
	_, err := f.service.Login(ctx, &dto.LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	}, "10.0.0.1", AuditContext{})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
	assert.Equal(t, 1, f.audit.count(models.AuditSecurityBlock))

	// A different IP is unaffected.
	_, err = f.service.Login(ctx, &dto.LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	}, "10.0.0.2", AuditContext{})
	assert.NoError(t, err)
}

func TestLogin_SuccessClearsFailCounter(t *testing.T) {
	f := newAuthFixture(t, 3)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _ = f.service.Login(ctx, &dto.LoginRequest{
			Username: "alice",
			Password: "wrong",
		}, "10.0.0.1", AuditContext{})
	}

	_, err := f.service.Login(ctx, &dto.LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	}, "10.0.0.1", AuditContext{})
	require.NoError(t, err)

	// Counter reset: two more failures do not lock.
	for i := 0; i < 2; i++ {
		_, err := f.service.Login(ctx, &dto.LoginRequest{
			Username: "alice",
			Password: "wrong",
		}, "10.0.0.1", AuditContext{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	f := newAuthFixture(t, 6)

	_, err := f.service.Register(&dto.RegisterRequest{
		Username: "bob_the_client",
		Email:    "bob@example.com",
		Password: "short",
	}, AuditContext{})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newAuthFixture(t, 6)

	_, err := f.service.Register(&dto.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "a long enough password",
	}, AuditContext{})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestRefreshToken_RotatesAndConsumes(t *testing.T) {
	f := newAuthFixture(t, 6)
	ctx := context.Background()

	login, err := f.service.Login(ctx, &dto.LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	}, "10.0.0.1", AuditContext{})
	require.NoError(t, err)

	rotated, err := f.service.RefreshToken(login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	// The presented token was consumed by the rotation.
	_, err = f.service.RefreshToken(login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestLogout_RevokesAllSessionsWithoutToken(t *testing.T) {
	f := newAuthFixture(t, 6)
	ctx := context.Background()

	login, err := f.service.Login(ctx, &dto.LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	}, "10.0.0.1", AuditContext{})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout("user-alice", "", AuditContext{}))

	_, err = f.service.RefreshToken(login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	assert.Equal(t, 1, f.audit.count(models.AuditAuthLogout))
}
