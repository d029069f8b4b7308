package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", 0, 0)
	assert.Equal(t, DefaultAccessTokenExpiry, svc.AccessTTL())
	assert.Equal(t, DefaultRefreshTokenExpiry, svc.RefreshTTL())

	access, err := svc.GenerateAccessToken(3, "carol")
	require.NoError(t, err)
	claims, err := svc.ValidateTyped(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "carol", claims.Username)
	assert.NotEmpty(t, claims.ID)

	id, refresh, err := svc.GenerateRefreshToken(3, "carol")
	require.NoError(t, err)
	claims, err = svc.ValidateTyped(refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, id, claims.ID)

	_, err = svc.ValidateTyped(refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, time.Hour)

	other, err := NewJWTService("another-secret", time.Minute, time.Hour).GenerateAccessToken(1, "x")
	require.NoError(t, err)
	_, err = svc.ValidateToken(other)
	assert.Error(t, err)

	expired, err := NewJWTService("secret", time.Nanosecond, time.Hour).GenerateAccessToken(1, "x")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = svc.ValidateToken(expired)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenStore_WithoutRedis(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "jti", 1, time.Hour))
	_, err := store.GetRefreshToken(ctx, "jti")
	assert.Error(t, err, "refresh tokens cannot be verified without redis")

	require.NoError(t, store.BlacklistAccessToken(ctx, "jti", time.Hour))
	revoked, err := store.IsAccessTokenBlacklisted(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
