package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftstay/selfcheckin-backend/internal/config"
	"github.com/swiftstay/selfcheckin-backend/internal/models"
	"github.com/swiftstay/selfcheckin-backend/internal/store"
	"github.com/swiftstay/selfcheckin-backend/pkg/jwt"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	st, err := store.OpenFileStore(filepath.Join(t.TempDir(), "state.json"), logger)
	require.NoError(t, err)

	jwtService := jwt.NewService("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
	svc, err := NewAuthService(config.AdminConfig{
		Username:   "admin",
		Password:   "correct-horse",
		BcryptCost: 4, // minimum cost keeps the test fast
	}, jwtService, st, logger)
	require.NoError(t, err)
	return svc
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t)

	result, err := svc.Login(models.LoginRequest{Username: "admin", Password: "correct-horse"}, chromeUA, "192.0.2.10")
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, result.AccessToken, result.RefreshToken)
	assert.Equal(t, "admin", result.Session.Username)
	assert.Equal(t, "192.0.2.10", result.Session.IP)
	assert.NotEqual(t, uuid.Nil, result.Session.ID)

	sessions, err := svc.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, result.Session.ID, sessions[0].ID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	tests := []struct {
		name string
		req  models.LoginRequest
	}{
		{"Wrong password", models.LoginRequest{Username: "admin", Password: "wrong"}},
		{"Wrong username", models.LoginRequest{Username: "root", Password: "correct-horse"}},
		{"Empty credentials", models.LoginRequest{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(tc.req, chromeUA, "192.0.2.10")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}

	// Failed logins leave no sessions behind.
	sessions, err := svc.Sessions()
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRefresh(t *testing.T) {
	svc := newTestAuthService(t)

	login, err := svc.Login(models.LoginRequest{Username: "admin", Password: "correct-horse"}, chromeUA, "192.0.2.10")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.Session.ID, refreshed.Session.ID)
}

func TestRefresh_InvalidToken(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Refresh("not-a-token")
	assert.Error(t, err)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	svc := newTestAuthService(t)

	login, err := svc.Login(models.LoginRequest{Username: "admin", Password: "correct-horse"}, chromeUA, "192.0.2.10")
	require.NoError(t, err)

	_, err = svc.Refresh(login.AccessToken)
	assert.Error(t, err)
}

func TestLogoutRevokesRefresh(t *testing.T) {
	svc := newTestAuthService(t)

	login, err := svc.Login(models.LoginRequest{Username: "admin", Password: "correct-horse"}, chromeUA, "192.0.2.10")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(login.Session.ID))

	sessions, err := svc.Sessions()
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = svc.Refresh(login.RefreshToken)
	require.Error(t, err)

	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestSessionDeviceInfo(t *testing.T) {
	svc := newTestAuthService(t)

	result, err := svc.Login(models.LoginRequest{Username: "admin", Password: "correct-horse"}, chromeUA, "192.0.2.10")
	require.NoError(t, err)

	assert.Equal(t, "desktop", result.Session.DeviceType)
	assert.NotEmpty(t, result.Session.Browser)
}
