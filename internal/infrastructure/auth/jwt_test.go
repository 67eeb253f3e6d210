package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitestock/backend/internal/domain/shared"
	"github.com/sitestock/backend/internal/infrastructure/config"
)

func newTestJWTService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-at-least-32-chars-long!!",
		AccessTokenExpiration: expiration,
		Issuer:                "sitestock-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestJWTService(15 * time.Minute)
	userID := uuid.New()

	t.Run("round trip preserves identity claims", func(t *testing.T) {
		token, expiresAt, err := service.GenerateToken(GenerateTokenInput{
			UserID:   userID,
			Username: "kofi",
			Role:     shared.RoleStorekeeper,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "kofi", claims.Username)
		assert.Equal(t, shared.RoleStorekeeper.String(), claims.Role)
		assert.Equal(t, "sitestock-test", claims.Issuer)
	})

	t.Run("claims convert to a domain actor", func(t *testing.T) {
		token, _, err := service.GenerateToken(GenerateTokenInput{
			UserID: userID,
			Role:   shared.RoleProjectManager,
		})
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)

		actor, err := claims.Actor()
		require.NoError(t, err)
		assert.Equal(t, userID, actor.ID)
		assert.Equal(t, shared.RoleProjectManager, actor.Role)
		assert.True(t, actor.CanApproveRequests())
		assert.False(t, actor.CanIssueStock())
	})

	t.Run("rejects unknown role at generation", func(t *testing.T) {
		_, _, err := service.GenerateToken(GenerateTokenInput{
			UserID: userID,
			Role:   shared.Role("SUPERUSER"),
		})

		assert.Equal(t, ErrUnknownRole, err)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	service := newTestJWTService(15 * time.Minute)

	t.Run("rejects expired token", func(t *testing.T) {
		expired := newTestJWTService(-1 * time.Minute)
		token, _, err := expired.GenerateToken(GenerateTokenInput{
			UserID: uuid.New(),
			Role:   shared.RoleEmployee,
		})
		require.NoError(t, err)

		_, err = service.ValidateToken(token)

		assert.Equal(t, ErrExpiredToken, err)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret-value!",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "sitestock-test",
		})
		token, _, err := other.GenerateToken(GenerateTokenInput{
			UserID: uuid.New(),
			Role:   shared.RoleEmployee,
		})
		require.NoError(t, err)

		_, err = service.ValidateToken(token)

		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.ValidateToken("not.a.token")

		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects empty string", func(t *testing.T) {
		_, err := service.ValidateToken("")

		assert.Error(t, err)
	})
}

func TestClaims_Actor(t *testing.T) {
	t.Run("rejects malformed user id", func(t *testing.T) {
		claims := &Claims{UserID: "not-a-uuid", Role: shared.RoleAdmin.String()}

		_, err := claims.Actor()

		assert.Equal(t, ErrInvalidClaims, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		claims := &Claims{UserID: uuid.New().String(), Role: "INTERN"}

		_, err := claims.Actor()

		assert.Equal(t, ErrUnknownRole, err)
	})
}
