package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/pending"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/payu"
	"github.com/google/uuid"
)

const (
	defaultNotifyTimeout = 15 * time.Second
	orderIDAttempts      = 3

	adminCancellationReason = "Cancelled by store administrator"
)

type OrderService interface {
	// HandleGatewayCallback turns a gateway success callback into exactly one
	// order per gateway transaction. Replays resolve to the order already stored.
	HandleGatewayCallback(ctx context.Context, txnID string) models.CallbackOutcome
	HandleGatewayFailure(ctx context.Context, txnID string) models.CallbackOutcome

	CreateOrder(ctx context.Context, identity *models.Identity, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, ownerID, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, ownerID string, page, size int) ([]*models.Order, int, error)
	CancelOrder(ctx context.Context, ownerID, orderID string, req *models.CancelOrderRequest) (*models.Order, error)

	ListAllOrders(ctx context.Context, status models.OrderStatus, page, size int) ([]*models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

type orderService struct {
	orders        repository.OrderRepository
	products      ProductService
	pending       pending.Store
	gateway       payu.Client
	notifier      NotificationService
	notifyTimeout time.Duration
	newOrderID    func() (string, error)
	// dispatch runs notification work off the request path.
	dispatch func(func())
}

func NewOrderService(orders repository.OrderRepository, products ProductService, store pending.Store, gateway payu.Client,
	notifier NotificationService, notifyTimeout time.Duration) OrderService {

	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}

	return &orderService{
		orders:        orders,
		products:      products,
		pending:       store,
		gateway:       gateway,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		newOrderID:    NewOrderID,
		dispatch:      func(fn func()) { go fn() },
	}
}

// NewOrderID returns the public order token: 20 upper-case hex characters.
func NewOrderID() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate order id: %w", err)
	}

	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

func (s *orderService) HandleGatewayCallback(ctx context.Context, txnID string) models.CallbackOutcome {

	logger := middleware.LoggerFromContext(ctx).With(slog.String("txnId", txnID))

	txn, err := s.gateway.VerifyPayment(ctx, txnID)
	if err != nil {
		return s.fail(logger, models.FailureVerification, err)
	}

	if !txn.Succeeded() {
		return s.fail(logger, models.FailureNotSuccessful, fmt.Errorf("gateway reported status %q", txn.Status))
	}

	if existing, ok := s.existingOrder(ctx, logger, txnID); ok {
		return s.duplicate(logger, existing)
	}

	// The record is only read here. Concurrent callbacks for the same
	// transaction all reach the insert and the unique txn id picks the winner.
	record, err := s.pending.Peek(ctx, txn.Reference())
	if err != nil {
		// The winner consumes the record only after its order is committed.
		if existing, ok := s.existingOrder(ctx, logger, txnID); ok {
			return s.duplicate(logger, existing)
		}

		metrics.RecordPendingPayment("miss")
		return s.fail(logger, models.FailurePendingMissing, err)
	}
	metrics.RecordPendingPayment("hit")

	order := orderFromCallback(record.Payload, txn)

	err = s.insertOrder(ctx, order)
	if errors.Is(err, repository.ErrDuplicateTxn) {
		if existing, ok := s.existingOrder(ctx, logger, txnID); ok {
			return s.duplicate(logger, existing)
		}
	}

	if err != nil {
		return s.fail(logger, models.FailurePersistence, err)
	}

	if _, err := s.pending.Take(ctx, record.Reference); err != nil {
		if !errors.Is(err, pending.ErrMiss) {
			logger.Warn("Failed to consume pending payment", slog.String("error", err.Error()))
		}
	} else {
		metrics.RecordPendingPayment("consumed")
	}

	metrics.RecordOrderMaterialized(false)
	logger.Info("Order materialized from gateway callback",
		slog.String("orderId", order.OrderID),
		slog.String("ownerId", order.OwnerID),
		slog.Float64("amount", order.TotalAmount))

	s.notify(logger, order)

	return models.CallbackOutcome{Success: true, OrderID: order.OrderID}
}

// HandleGatewayFailure records a payment the customer abandoned or the gateway
// declined. The pending record is left to expire.
func (s *orderService) HandleGatewayFailure(ctx context.Context, txnID string) models.CallbackOutcome {

	logger := middleware.LoggerFromContext(ctx)

	metrics.RecordCheckoutFailure(metrics.FailureClassUserCancelled, string(models.FailureUserCancelled))
	logger.Warn("Gateway reported payment failure",
		slog.String("txnId", txnID),
		slog.String("failure_class", metrics.FailureClassUserCancelled))

	return models.CallbackOutcome{FailureReason: models.FailureUserCancelled}
}

func (s *orderService) existingOrder(ctx context.Context, logger *slog.Logger, txnID string) (*models.Order, bool) {
	order, err := s.orders.GetByGatewayTxnID(ctx, txnID)
	if err != nil {
		if !errors.Is(err, repository.ErrOrderNotFound) {
			logger.Warn("Existing order lookup failed", slog.String("error", err.Error()))
		}

		return nil, false
	}

	return order, true
}

// insertOrder retries with a fresh public id when the generated one collides.
func (s *orderService) insertOrder(ctx context.Context, order *models.Order) error {
	var err error

	for range orderIDAttempts {
		if order.OrderID, err = s.newOrderID(); err != nil {
			return err
		}

		err = s.orders.CreateOrder(ctx, order)
		if !errors.Is(err, repository.ErrDuplicateOrderID) {
			return err
		}
	}

	return err
}

func (s *orderService) duplicate(logger *slog.Logger, order *models.Order) models.CallbackOutcome {
	metrics.RecordOrderMaterialized(true)
	logger.Info("Duplicate gateway callback resolved to existing order",
		slog.String("orderId", order.OrderID),
		slog.String("failure_class", metrics.FailureClassReplay))

	return models.CallbackOutcome{Success: true, OrderID: order.OrderID, Duplicate: true}
}

func (s *orderService) fail(logger *slog.Logger, reason models.FailureReason, err error) models.CallbackOutcome {
	metrics.RecordCheckoutFailure(metrics.FailureClassUnrecoverable, string(reason))
	logger.Error("Gateway callback did not produce an order",
		slog.String("failure_class", metrics.FailureClassUnrecoverable),
		slog.String("reason", string(reason)),
		slog.String("error", err.Error()))

	return models.CallbackOutcome{FailureReason: reason}
}

// notify sends both order emails on a context detached from the request.
// Errors are logged and never reach the caller.
func (s *orderService) notify(logger *slog.Logger, order *models.Order) {
	if s.notifier == nil {
		return
	}

	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		ctx = middleware.WithLogger(ctx, logger)

		if err := s.notifier.NotifyCustomer(ctx, order); err != nil {
			logger.Error("Customer order email failed", slog.String("orderId", order.OrderID), slog.String("error", err.Error()))
		}

		if err := s.notifier.NotifyOperations(ctx, order); err != nil {
			logger.Error("Operations order email failed", slog.String("orderId", order.OrderID), slog.String("error", err.Error()))
		}
	})
}

func orderFromCallback(payload models.CheckoutPayload, txn *payu.Transaction) *models.Order {
	txnID := txn.TxnID

	name := txn.UDF[2]
	if name == "" {
		name = payload.Contact.Name
	}

	phone := txn.UDF[1]
	if phone == "" {
		phone = payload.Contact.Phone
	}

	return &models.Order{
		ID:               uuid.New(),
		OwnerID:          payload.OwnerID,
		CustomerEmail:    payload.Email,
		CustomerName:     name,
		Phone:            phone,
		BillingAddress:   payload.Contact,
		Items:            payload.Items,
		TotalAmount:      payload.TotalAmount,
		PaymentMethod:    models.ParsePaymentMethod(txn.Mode),
		GatewayPaymentID: txn.PaymentID,
		GatewayTxnID:     &txnID,
		Status:           models.OrderStatusProcessing,
		FromBuyNow:       payload.FromBuyNow,
	}
}

// CreateOrder is the direct creation path: the order starts pending and carries
// no gateway transaction.
func (s *orderService) CreateOrder(ctx context.Context, identity *models.Identity, req *models.CreateOrderRequest) (*models.Order, error) {

	items, total, err := priceLines(ctx, s.products, req.Items)
	if err != nil {
		return nil, err
	}

	contact := sanitizeContact(req.Contact)

	order := &models.Order{
		ID:             uuid.New(),
		OwnerID:        identity.ID,
		CustomerEmail:  identity.Email,
		CustomerName:   contact.Name,
		Phone:          contact.Phone,
		BillingAddress: contact,
		Items:          items,
		TotalAmount:    total,
		PaymentMethod:  req.PaymentMethod,
		Status:         models.OrderStatusPending,
		FromBuyNow:     req.FromBuyNow,
	}

	if err := s.insertOrder(ctx, order); err != nil {
		return nil, appErrors.DatabaseError("Failed to create order").WithError(err)
	}

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, ownerID, orderID string) (*models.Order, error) {

	order, err := s.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.OwnerID != ownerID {
		return nil, appErrors.ForbiddenError("You don't have permission to access this order")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, ownerID string, page, size int) ([]*models.Order, int, error) {

	page, size = normalizePage(page, size)

	orders, total, err := s.orders.ListByOwner(ctx, ownerID, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// CancelOrder cancels a pending order owned by the caller. The status check and
// the write happen in one conditional update.
func (s *orderService) CancelOrder(ctx context.Context, ownerID, orderID string, req *models.CancelOrderRequest) (*models.Order, error) {

	reason := utils.SanitizeText(req.Reason)
	if reason == "" {
		return nil, appErrors.ValidationError("Cancellation reason is required")
	}

	order, err := s.orders.CancelPending(ctx, orderID, ownerID, models.Cancellation{
		IsCancelled: true,
		Reason:      reason,
		CancelledAt: time.Now().UTC(),
	})
	if err == nil {
		return order, nil
	}

	if !errors.Is(err, repository.ErrStatusConflict) {
		return nil, appErrors.DatabaseError("Failed to cancel order").WithError(err)
	}

	current, err := s.GetOrder(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}

	return nil, appErrors.InvalidTransitionError("Only pending orders can be cancelled").
		WithDetail(fmt.Sprintf("order is %s", current.Status))
}

func (s *orderService) ListAllOrders(ctx context.Context, status models.OrderStatus, page, size int) ([]*models.Order, int, error) {

	if status != "" && !status.Valid() {
		return nil, 0, appErrors.ValidationError("Unknown order status").WithDetail(string(status))
	}

	page, size = normalizePage(page, size)

	orders, total, err := s.orders.List(ctx, status, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {

	current, err := s.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if !models.CanTransition(current.Status, status) {
		return nil, appErrors.InvalidTransitionError("Order status change not allowed").
			WithDetail(fmt.Sprintf("%s -> %s", current.Status, status))
	}

	var cancellation *models.Cancellation
	if status == models.OrderStatusCancelled {
		cancellation = &models.Cancellation{
			IsCancelled: true,
			Reason:      adminCancellationReason,
			CancelledAt: time.Now().UTC(),
		}
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, current.Status, status, cancellation)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, appErrors.InvalidTransitionError("Order status changed concurrently").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update order status").WithError(err)
	}

	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID string) error {

	if err := s.orders.Delete(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return appErrors.NotFoundError("Order not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to delete order").WithError(err)
	}

	return nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	return page, size
}
