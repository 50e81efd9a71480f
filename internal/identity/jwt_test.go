package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTVerifier(t *testing.T) {
	verifier := NewJWTVerifier([]byte("test-secret"))
	ctx := context.Background()

	t.Run("Success - Issued token round trips", func(t *testing.T) {
		// Arrange
		token, err := verifier.Issue(&models.Identity{ID: "user-1", Email: "asha@example.com", DisplayName: "Asha", Role: "admin"}, time.Hour)
		require.NoError(t, err)

		// Act
		identity, err := verifier.Verify(ctx, token)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.ID)
		assert.Equal(t, "asha@example.com", identity.Email)
		assert.Equal(t, "Asha", identity.DisplayName)
		assert.Equal(t, "admin", identity.Role)
	})

	t.Run("Failure - Expired", func(t *testing.T) {
		// Arrange
		token, err := verifier.Issue(&models.Identity{ID: "user-1"}, -time.Minute)
		require.NoError(t, err)

		// Act
		identity, err := verifier.Verify(ctx, token)

		// Assert
		assert.Nil(t, identity)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("Failure - Wrong key", func(t *testing.T) {
		// Arrange
		token, err := NewJWTVerifier([]byte("other-secret")).Issue(&models.Identity{ID: "user-1"}, time.Hour)
		require.NoError(t, err)

		// Act
		_, err = verifier.Verify(ctx, token)

		// Assert
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Failure - Unexpected signing method", func(t *testing.T) {
		// Arrange
		claims := models.Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		// Act
		_, err = verifier.Verify(ctx, token)

		// Assert
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Failure - Missing user id", func(t *testing.T) {
		// Arrange
		token, err := verifier.Issue(&models.Identity{Email: "nobody@example.com"}, time.Hour)
		require.NoError(t, err)

		// Act
		_, err = verifier.Verify(ctx, token)

		// Assert
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Failure - Garbage", func(t *testing.T) {
		_, err := verifier.Verify(ctx, "not-a-token")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
