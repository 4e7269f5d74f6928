package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasi-noc/incident-tickets/internal/config"
	apperrors "github.com/kasi-noc/incident-tickets/pkg/util"
)

func TestAuthServiceLogin(t *testing.T) {
	svc, err := NewAuthService(config.AuthConfig{
		Username:              "admin",
		Password:              "password",
		JWTSecret:             "secret",
		AccessTokenTTLMinutes: 10,
		BcryptCost:            4,
	})
	require.NoError(t, err)

	token, meta, err := svc.Login(context.Background(), "admin", "password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin", meta.Subject)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)

	_, _, err = svc.Login(context.Background(), "admin", "wrong")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, _, err = svc.Login(context.Background(), "root", "password")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}
