package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/core/services"
	"github.com/tillpoint/cashdesk_backend/internal/middleware"
	"github.com/tillpoint/cashdesk_backend/internal/platform/config"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "cashdesk-backend",
		JWTExpiryDuration: time.Hour,
	}
	svc := services.NewTokenService(cfg)

	user := &domain.User{
		UserID:   "user-alice",
		TenantID: "tenant-1",
		Role:     domain.RoleCashier,
	}

	signed, err := svc.GenerateToken(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	var claims middleware.ActorClaims
	token, err := jwt.ParseWithClaims(signed, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	require.Equal(t, "user-alice", claims.Subject)
	require.Equal(t, "tenant-1", claims.TenantID)
	require.Equal(t, string(domain.RoleCashier), claims.Role)
	require.Equal(t, "cashdesk-backend", claims.Issuer)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestGenerateToken_WrongSecretRejected(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "cashdesk-backend",
		JWTExpiryDuration: time.Hour,
	}
	svc := services.NewTokenService(cfg)

	signed, err := svc.GenerateToken(context.Background(), &domain.User{UserID: "u", TenantID: "t"})
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &middleware.ActorClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	require.Error(t, err)
}
