package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, ttl time.Duration) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		SecretKey: "unit-test-secret-key",
		Issuer:    "meetsync-test",
		TokenTTL:  ttl,
	})
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	t.Run("requires a secret", func(t *testing.T) {
		_, err := NewJWTService(JWTConfig{})
		assert.Error(t, err)
	})

	t.Run("defaults the TTL", func(t *testing.T) {
		svc := newTestService(t, 0)
		assert.Equal(t, 7*24*time.Hour, svc.tokenTTL)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.IssueToken(42, "Ada", "ada@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestValidateTokenAcceptsBearerPrefix(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.IssueToken(1, "Ada", "ada@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken("Bearer " + token)
	assert.NoError(t, err)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := newTestService(t, time.Hour)

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.ValidateToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := newTestService(t, -time.Minute)
		token, err := expired.IssueToken(1, "Ada", "ada@example.com")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTService(JWTConfig{SecretKey: "a-different-secret-key", Issuer: "meetsync-test"})
		require.NoError(t, err)

		token, err := other.IssueToken(1, "Ada", "ada@example.com")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewJWTService(JWTConfig{SecretKey: "unit-test-secret-key", Issuer: "someone-else"})
		require.NoError(t, err)

		token, err := other.IssueToken(1, "Ada", "ada@example.com")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}
