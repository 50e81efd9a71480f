package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// currentUser returns the authenticated identity and a logger scoped to it.
// It writes a 401 and returns false when the request carries no identity.
func currentUser(w http.ResponseWriter, r *http.Request, action string) (*models.Identity, *slog.Logger, bool) {

	logger := middleware.LoggerFromContext(r.Context())

	user, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		logger.Warn("Unauthorized attempt: missing identity", slog.String("action", action))
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, logger, false
	}

	return user, logger.With(slog.String("userID", user.ID)), true
}

func pagination(r *http.Request) (int, int) {

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}

	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	return page, pageSize
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {

	orderID := r.PathValue("orderId")
	if orderID == "" {
		response.Error(w, errors.BadRequestError("Order ID is required"))
		return "", false
	}

	return orderID, true
}
