package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := currentUser(w, r, "get cart")
		if !ok {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), user.ID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Debug("Cart retrieved", slog.Int("lines", len(cart.Items)))
		response.Success(w, http.StatusOK, cart)
	}
}

// ReplaceCart overwrites the caller's server cart with the posted lines.
func (h *CartHandler) ReplaceCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := currentUser(w, r, "replace cart")
		if !ok {
			return
		}

		var req models.UpdateCartRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid cart update input")
			return
		}

		cart, err := h.cartService.ReplaceCart(r.Context(), user.ID, &req)
		if err != nil {
			logger.Warn("Failed to replace cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart replaced", slog.Int("lines", len(cart.Items)))
		response.Success(w, http.StatusOK, cart)
	}
}
