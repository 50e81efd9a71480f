// Package identity verifies bearer credentials issued by the configured
// identity provider and turns them into a models.Identity.
package identity

import (
	"context"
	"errors"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
)

var ErrInvalidToken = errors.New("invalid identity token")

type Verifier interface {
	Verify(ctx context.Context, token string) (*models.Identity, error)
}
