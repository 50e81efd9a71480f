package testutils

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
)

func CreateTestRequestWithContext(method, target string, body io.Reader, user *models.Identity, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutContext(method, target, body, pathParams)

	return req.WithContext(middleware.WithIdentity(req.Context(), user))
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return req.WithContext(middleware.WithLogger(req.Context(), logger))
}

func TestCustomer() *models.Identity {
	return &models.Identity{ID: "user-123", Email: "asha@example.com", DisplayName: "Asha Rao"}
}

func TestAdmin() *models.Identity {
	return &models.Identity{ID: "admin-1", Email: "ops@example.com", DisplayName: "Ops", Role: "admin"}
}
