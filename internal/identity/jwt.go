package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier accepts HS256 tokens signed with a shared key.
type JWTVerifier struct {
	jwtKey []byte
}

func NewJWTVerifier(jwtKey []byte) *JWTVerifier {
	return &JWTVerifier{jwtKey: jwtKey}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*models.Identity, error) {

	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &models.Identity{
		ID:          claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Role:        claims.Role,
	}, nil
}

// Issue signs a token for identity. Used by tooling and tests; production
// tokens come from the identity provider.
func (v *JWTVerifier) Issue(identity *models.Identity, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := models.Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Name:   identity.DisplayName,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.jwtKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
