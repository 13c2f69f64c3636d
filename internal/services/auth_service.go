package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftstay/selfcheckin-backend/internal/config"
	"github.com/swiftstay/selfcheckin-backend/internal/models"
	"github.com/swiftstay/selfcheckin-backend/internal/store"
	"github.com/swiftstay/selfcheckin-backend/internal/utils"
	"github.com/swiftstay/selfcheckin-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login attempt. The
// message is deliberately identical for a wrong username and a wrong
// password.
var ErrInvalidCredentials = fmt.Errorf("invalid username or password")

// AuthService handles the admin dashboard login. There is a single
// configured credential pair; the password is hashed at startup and only
// the hash is kept in memory.
type AuthService struct {
	username     string
	passwordHash []byte
	jwtService   *jwt.Service
	store        store.Store
	logger       *logrus.Logger
	now          func() time.Time
}

// NewAuthService hashes the configured admin password and wires the
// token and session machinery.
func NewAuthService(cfg config.AdminConfig, jwtService *jwt.Service, st store.Store, logger *logrus.Logger) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AuthService{
		username:     cfg.Username,
		passwordHash: hash,
		jwtService:   jwtService,
		store:        st,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// LoginResult carries the token pair and session issued on login.
type LoginResult struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	Session      models.AdminSession `json:"session"`
}

// Login checks the credentials, records a session with the caller's
// device info and returns an access/refresh token pair.
func (s *AuthService) Login(req models.LoginRequest, userAgent, ip string) (*LoginResult, error) {
	if req.Username != s.username {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	device := utils.ParseUserAgent(userAgent)
	session := models.AdminSession{
		ID:         uuid.New(),
		Username:   req.Username,
		DeviceType: device.DeviceType,
		OS:         device.OS,
		Browser:    device.Browser,
		IP:         ip,
		LoginAt:    s.now(),
	}

	err := s.store.Update(func(tx store.Tx) error {
		var sessions []models.AdminSession
		if err := tx.Get(store.KeyAdminSessions, &sessions); err != nil {
			return err
		}
		sessions = append(sessions, session)
		return tx.Set(store.KeyAdminSessions, sessions)
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(req.Username, []string{"admin"}, session.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(req.Username, session.ID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"username": req.Username,
		"session":  session.ID,
		"device":   device.DeviceType,
		"ip":       ip,
	}).Info("Admin logged in")

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Session:      session,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The session
// must still exist; logout revokes it.
func (s *AuthService) Refresh(refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	session, err := s.findSession(claims.SessionID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.Username, []string{"admin"}, session.ID)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.jwtService.GenerateRefreshToken(claims.Username, session.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		Session:      *session,
	}, nil
}

// Logout removes the session so its refresh token can no longer be used.
func (s *AuthService) Logout(sessionID uuid.UUID) error {
	return s.store.Update(func(tx store.Tx) error {
		var sessions []models.AdminSession
		if err := tx.Get(store.KeyAdminSessions, &sessions); err != nil {
			return err
		}
		filtered := sessions[:0:0]
		for _, sess := range sessions {
			if sess.ID != sessionID {
				filtered = append(filtered, sess)
			}
		}
		return tx.Set(store.KeyAdminSessions, filtered)
	})
}

// Sessions lists active admin sessions.
func (s *AuthService) Sessions() ([]models.AdminSession, error) {
	var sessions []models.AdminSession
	if err := s.store.Get(store.KeyAdminSessions, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *AuthService) findSession(id uuid.UUID) (*models.AdminSession, error) {
	sessions, err := s.Sessions()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, &NotFoundError{Resource: "session", ID: id.String()}
}
