package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

// LookupProducts is public. Ids that do not resolve are absent from the result.
func (h *ProductHandler) LookupProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.ProductLookupRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid product lookup input")
			return
		}

		products, err := h.productService.LookupProducts(r.Context(), req.IDs)
		if err != nil {
			logger.Error("Failed to look up products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Debug("Products looked up", slog.Int("requested", len(req.IDs)), slog.Int("found", len(products)))
		response.Success(w, http.StatusOK, models.ProductLookupResponse{Products: products})
	}
}
