package service

import (
	"context"
	"crypto/subtle"

	"github.com/kasi-noc/incident-tickets/internal/auth"
	"github.com/kasi-noc/incident-tickets/internal/config"
	"github.com/kasi-noc/incident-tickets/internal/domain"
	apperrors "github.com/kasi-noc/incident-tickets/pkg/util"
)

// AuthService is the login gate for the single configured operator.
type AuthService struct {
	operator     domain.Operator
	passwordHash string
	tokenMgr     *auth.TokenManager
	required     bool
}

// NewAuthService hashes the configured operator password with bcrypt.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	hash, err := auth.HashPassword(cfg.Password, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		operator:     domain.Operator{Username: cfg.Username},
		passwordHash: hash,
		tokenMgr:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		required:     cfg.Required,
	}, nil
}

// Login checks the credentials and issues a bearer token.
func (s *AuthService) Login(_ context.Context, username, password string) (string, domain.Token, error) {
	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.operator.Username)) == 1
	if err := auth.ComparePassword(s.passwordHash, password); err != nil || !userMatch {
		return "", domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, meta, err := s.tokenMgr.GenerateToken(s.operator.Username)
	if err != nil {
		return "", domain.Token{}, apperrors.NewInternalError(err)
	}
	return token, meta, nil
}

// Required reports whether ticket routes demand a bearer token.
func (s *AuthService) Required() bool {
	return s.required
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
