package service

import (
	"context"
	"errors"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	ReplaceCart(ctx context.Context, userID string, req *models.UpdateCartRequest) (*models.Cart, error)
}

type cartService struct {
	repo repository.CartRepository
}

func NewCartService(repo repository.CartRepository) CartService {
	return &cartService{repo: repo}
}

// GetCart returns the stored cart, or an empty one when the user never saved a cart.
func (s *cartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return &models.Cart{UserID: userID, Items: []models.CartLine{}}, nil
		}

		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}

	return cart, nil
}

// ReplaceCart overwrites the whole cart. Concurrent writers resolve as last writer wins.
func (s *cartService) ReplaceCart(ctx context.Context, userID string, req *models.UpdateCartRequest) (*models.Cart, error) {

	lines := models.NormalizeLines(req.Cart)
	if len(req.Cart) > 0 && len(lines) == 0 {
		return nil, appErrors.ValidationError("Invalid cart items")
	}

	cart := &models.Cart{
		UserID:    userID,
		Items:     lines,
		UpdatedAt: time.Now(),
	}

	if err := s.repo.ReplaceCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}
