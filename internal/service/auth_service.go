package service

import (
	"context"
	"crypto/subtle"

	"krubolab/internal/model"

	"github.com/rs/zerolog"
)

type authService struct {
	password string
	logger   zerolog.Logger
}

// NewAuthService creates an AuthService for the given admin password. An
// empty password leaves the admin area unconfigured.
func NewAuthService(password string, logger zerolog.Logger) AuthService {
	return &authService{
		password: password,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

func (s *authService) Configured() bool {
	return s.password != ""
}

// Login checks password against the configured admin password.
func (s *authService) Login(_ context.Context, password string) error {
	if password == "" {
		return model.ErrPasswordRequired
	}
	if s.password == "" {
		s.logger.Error().Msg("ADMIN_PASSWORD environment variable is not set")
		return model.ErrAdminNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		s.logger.Warn().Msg("admin login rejected")
		return model.ErrInvalidPassword
	}
	return nil
}
