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

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// CreateOrder creates a pending order without a gateway round trip.
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := currentUser(w, r, "create order")
		if !ok {
			return
		}

		var req models.CreateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create order input")
			return
		}

		order, err := h.orderService.CreateOrder(r.Context(), user, &req)
		if err != nil {
			logger.Error("Failed to create order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order created successfully", slog.String("orderId", order.OrderID))
		response.Success(w, http.StatusCreated, models.OrderResponse{Order: order})
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := currentUser(w, r, "get order")
		if !ok {
			return
		}

		orderID, ok := orderIDParam(w, r)
		if !ok {
			return
		}

		logger = logger.With(slog.String("orderId", orderID))

		order, err := h.orderService.GetOrder(r.Context(), user.ID, orderID)
		if err != nil {
			logger.Warn("Failed to get order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.OrderResponse{Order: order})
	}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := currentUser(w, r, "list orders")
		if !ok {
			return
		}

		page, pageSize := pagination(r)

		orders, total, err := h.orderService.ListOrders(r.Context(), user.ID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Debug("Orders listed", slog.Int("count", len(orders)), slog.Int("total", total))
		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

func (h *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := currentUser(w, r, "cancel order")
		if !ok {
			return
		}

		orderID, ok := orderIDParam(w, r)
		if !ok {
			return
		}

		logger = logger.With(slog.String("orderId", orderID))

		var req models.CancelOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid cancel order input")
			return
		}

		order, err := h.orderService.CancelOrder(r.Context(), user.ID, orderID, &req)
		if err != nil {
			logger.Warn("Failed to cancel order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order cancelled")
		response.Success(w, http.StatusOK, models.OrderResponse{Order: order})
	}
}
