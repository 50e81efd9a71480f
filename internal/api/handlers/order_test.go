package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const handlerOrderID = "9F86D081884C7D659A2F"

func setupOrderTest(t *testing.T) (*mocks.OrderService, *handlers.OrderHandler) {
	orderService := mocks.NewOrderService(t)

	return orderService, handlers.NewOrderHandler(orderService)
}

func TestCreateOrderHandler(t *testing.T) {
	user := testutils.TestCustomer()
	body := `{
		"items":[{"product_id":"p1","quantity":1}],
		"contact":{"name":"Asha Rao","phone":"9876543210","address":"12 MG Road","city":"Pune","state":"MH","postal_code":"411001","country":"IN"},
		"payment_method":"upi"
	}`

	t.Run("Success - Created", func(t *testing.T) {
		// Arrange
		orderService, orderHandler := setupOrderTest(t)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", strings.NewReader(body), user, nil)
		rr := httptest.NewRecorder()

		orderService.On("CreateOrder", mock.Anything, user, mock.MatchedBy(func(r *models.CreateOrderRequest) bool {
			return r.PaymentMethod == models.PaymentMethodUPI
		})).Return(&models.Order{OrderID: handlerOrderID, OwnerID: user.ID, Status: models.OrderStatusPending}, nil).Once()

		// Act
		orderHandler.CreateOrder()(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), handlerOrderID)
		assert.Contains(t, rr.Body.String(), `"status":"pending"`)
	})

	t.Run("Failure - Unknown payment method", func(t *testing.T) {
		// Arrange
		_, orderHandler := setupOrderTest(t)
		bad := strings.Replace(body, `"upi"`, `"cash"`, 1)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", strings.NewReader(bad), user, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.CreateOrder()(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeValidation, decodeResponse(t, rr).Error.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	user := testutils.TestCustomer()

	tests := []struct {
		name           string
		order          *models.Order
		err            error
		expectedStatus int
	}{
		{"Success", &models.Order{OrderID: handlerOrderID, OwnerID: user.ID}, nil, http.StatusOK},
		{"Not found", nil, appErrors.NotFoundError("Order not found"), http.StatusNotFound},
		{"Another owner", nil, appErrors.ForbiddenError("You don't have permission to access this order"), http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			orderService, orderHandler := setupOrderTest(t)
			req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+handlerOrderID, nil, user,
				map[string]string{"orderId": handlerOrderID})
			rr := httptest.NewRecorder()

			orderService.On("GetOrder", mock.Anything, user.ID, handlerOrderID).Return(tc.order, tc.err).Once()

			// Act
			orderHandler.GetOrder()(rr, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestListOrdersHandler(t *testing.T) {
	user := testutils.TestCustomer()

	t.Run("Success - Pagination defaults on bad input", func(t *testing.T) {
		// Arrange
		orderService, orderHandler := setupOrderTest(t)
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders?page=-2&pageSize=1000", nil, user, nil)
		rr := httptest.NewRecorder()

		orders := []*models.Order{{OrderID: handlerOrderID, OwnerID: user.ID}}
		orderService.On("ListOrders", mock.Anything, user.ID, 1, 10).Return(orders, 1, nil).Once()

		// Act
		orderHandler.ListOrders()(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"total":1`)
		assert.Contains(t, rr.Body.String(), `"pageSize":10`)
	})

	t.Run("Success - Explicit page", func(t *testing.T) {
		// Arrange
		orderService, orderHandler := setupOrderTest(t)
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders?page=3&pageSize=25", nil, user, nil)
		rr := httptest.NewRecorder()

		orderService.On("ListOrders", mock.Anything, user.ID, 3, 25).Return([]*models.Order{}, 51, nil).Once()

		// Act
		orderHandler.ListOrders()(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestCancelOrderHandler(t *testing.T) {
	user := testutils.TestCustomer()

	t.Run("Success - Cancelled", func(t *testing.T) {
		// Arrange
		orderService, orderHandler := setupOrderTest(t)
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/orders/"+handlerOrderID+"/cancel",
			strings.NewReader(`{"cancellation_reason":"Ordered by mistake"}`), user, map[string]string{"orderId": handlerOrderID})
		rr := httptest.NewRecorder()

		orderService.On("CancelOrder", mock.Anything, user.ID, handlerOrderID, &models.CancelOrderRequest{Reason: "Ordered by mistake"}).
			Return(&models.Order{OrderID: handlerOrderID, Status: models.OrderStatusCancelled,
				Cancellation: &models.Cancellation{IsCancelled: true, Reason: "Ordered by mistake"}}, nil).Once()

		// Act
		orderHandler.CancelOrder()(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"cancelled"`)
	})

	t.Run("Failure - Not pending", func(t *testing.T) {
		// Arrange
		orderService, orderHandler := setupOrderTest(t)
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/orders/"+handlerOrderID+"/cancel",
			strings.NewReader(`{"cancellation_reason":"Too slow"}`), user, map[string]string{"orderId": handlerOrderID})
		rr := httptest.NewRecorder()

		orderService.On("CancelOrder", mock.Anything, user.ID, handlerOrderID, mock.Anything).
			Return(nil, appErrors.InvalidTransitionError("Only pending orders can be cancelled")).Once()

		// Act
		orderHandler.CancelOrder()(rr, req)

		// Assert
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, appErrors.ErrCodeInvalidTransition, decodeResponse(t, rr).Error.Code)
	})

	t.Run("Failure - Missing reason", func(t *testing.T) {
		// Arrange
		_, orderHandler := setupOrderTest(t)
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/orders/"+handlerOrderID+"/cancel",
			strings.NewReader(`{}`), user, map[string]string{"orderId": handlerOrderID})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.CancelOrder()(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
