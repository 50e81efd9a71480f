package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// AdminHandler serves the operator routes. Every route is mounted behind
// AuthMiddleware.RequireAdmin.
type AdminHandler struct {
	orderService        service.OrderService
	notificationService service.NotificationService
	validator           *validator.Validate
}

func NewAdminHandler(orderService service.OrderService, notificationService service.NotificationService) *AdminHandler {
	return &AdminHandler{
		orderService:        orderService,
		notificationService: notificationService,
		validator:           validator.New(),
	}
}

func (h *AdminHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := currentUser(w, r, "admin list orders")
		if !ok {
			return
		}

		status := models.OrderStatus(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			response.Error(w, errors.ValidationError("Invalid order status").WithDetail(string(status)))
			return
		}

		page, pageSize := pagination(r)

		orders, total, err := h.orderService.ListAllOrders(r.Context(), status, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

func (h *AdminHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := currentUser(w, r, "admin update order status")
		if !ok {
			return
		}

		orderID, ok := orderIDParam(w, r)
		if !ok {
			return
		}

		logger = logger.With(slog.String("orderId", orderID))

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update order status input")
			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), orderID, req.Status)
		if err != nil {
			logger.Warn("Failed to update order status", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated", slog.String("status", string(order.Status)))
		response.Success(w, http.StatusOK, models.OrderResponse{Order: order})
	}
}

func (h *AdminHandler) DeleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := currentUser(w, r, "admin delete order")
		if !ok {
			return
		}

		orderID, ok := orderIDParam(w, r)
		if !ok {
			return
		}

		if err := h.orderService.DeleteOrder(r.Context(), orderID); err != nil {
			logger.Warn("Failed to delete order", slog.String("orderId", orderID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order deleted", slog.String("orderId", orderID))
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AdminHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := currentUser(w, r, "admin list notifications")
		if !ok {
			return
		}

		orderID, ok := orderIDParam(w, r)
		if !ok {
			return
		}

		notifications, err := h.notificationService.ListByOrder(r.Context(), orderID)
		if err != nil {
			logger.Error("Failed to list notifications", slog.String("orderId", orderID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, notifications)
	}
}
