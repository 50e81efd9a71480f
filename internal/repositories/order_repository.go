package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/lib/pq"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateTxn means another order already holds the gateway transaction id.
	ErrDuplicateTxn     = errors.New("order for gateway transaction already exists")
	ErrDuplicateOrderID = errors.New("order id already exists")
	// ErrStatusConflict means a conditional status update matched no row in the expected status.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

const (
	uniqueViolation      = "23505"
	gatewayTxnConstraint = "orders_gateway_txn_id_key"
	orderIDConstraint    = "orders_order_id_key"
	orderSelectColumns   = `id, order_id, owner_id, customer_email, customer_name, phone, billing_address, items, total_amount, payment_method, gateway_payment_id, gateway_txn_id, status, cancellation, from_buy_now, created_at, updated_at`
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	GetByGatewayTxnID(ctx context.Context, txnID string) (*models.Order, error)
	ListByOwner(ctx context.Context, ownerID string, page, size int) ([]*models.Order, int, error)
	List(ctx context.Context, status models.OrderStatus, page, size int) ([]*models.Order, int, error)
	UpdateStatus(ctx context.Context, orderID string, from, to models.OrderStatus, cancellation *models.Cancellation) (*models.Order, error)
	CancelPending(ctx context.Context, orderID, ownerID string, cancellation models.Cancellation) (*models.Order, error)
	Delete(ctx context.Context, orderID string) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}

	var (
		billingJSON, itemsJSON, cancellationJSON []byte
		paymentID, txnID                         sql.NullString
	)

	err := row.Scan(&order.ID, &order.OrderID, &order.OwnerID, &order.CustomerEmail, &order.CustomerName, &order.Phone,
		&billingJSON, &itemsJSON, &order.TotalAmount, &order.PaymentMethod, &paymentID, &txnID,
		&order.Status, &cancellationJSON, &order.FromBuyNow, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(billingJSON, &order.BillingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal billing address: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	if len(cancellationJSON) > 0 && string(cancellationJSON) != "null" {
		order.Cancellation = &models.Cancellation{}
		if err := json.Unmarshal(cancellationJSON, order.Cancellation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cancellation: %w", err)
		}
	}

	order.GatewayPaymentID = paymentID.String

	if txnID.Valid {
		order.GatewayTxnID = &txnID.String
	}

	return order, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	billingJSON, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal billing address: %w", err)
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	var paymentID sql.NullString
	if order.GatewayPaymentID != "" {
		paymentID = sql.NullString{String: order.GatewayPaymentID, Valid: true}
	}

	var txnID sql.NullString
	if order.GatewayTxnID != nil {
		txnID = sql.NullString{String: *order.GatewayTxnID, Valid: true}
	}

	query := `
		INSERT INTO orders (id, order_id, owner_id, customer_email, customer_name, phone, billing_address, items, total_amount, payment_method, gateway_payment_id, gateway_txn_id, status, from_buy_now, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = r.DB.QueryRowContext(dbCtx, query, order.ID, order.OrderID, order.OwnerID, order.CustomerEmail, order.CustomerName, order.Phone,
		billingJSON, itemsJSON, order.TotalAmount, order.PaymentMethod, paymentID, txnID, order.Status, order.FromBuyNow).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			switch pqErr.Constraint {
			case gatewayTxnConstraint:
				return ErrDuplicateTxn
			case orderIDConstraint:
				return ErrDuplicateOrderID
			}
		}

		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) getOne(ctx context.Context, where string, arg any) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderSelectColumns + ` FROM orders WHERE ` + where

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	return r.getOne(ctx, "order_id = $1", orderID)
}

func (r *orderRepository) GetByGatewayTxnID(ctx context.Context, txnID string) (*models.Order, error) {
	return r.getOne(ctx, "gateway_txn_id = $1", txnID)
}

func (r *orderRepository) ListByOwner(ctx context.Context, ownerID string, page, size int) ([]*models.Order, int, error) {
	return r.list(ctx, "owner_id = $1", ownerID, page, size)
}

// List returns every order, newest first. An empty status means all statuses.
func (r *orderRepository) List(ctx context.Context, status models.OrderStatus, page, size int) ([]*models.Order, int, error) {
	return r.list(ctx, "($1 = '' OR status = $1)", string(status), page, size)
}

func (r *orderRepository) list(ctx context.Context, where string, arg any, page, size int) ([]*models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `SELECT ` + orderSelectColumns + ` FROM orders WHERE ` + where + ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, arg, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0, size)

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating order rows: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus moves an order from one status to another. It matches no row,
// and returns ErrStatusConflict, when the order is no longer in from. A non-nil
// cancellation is written in the same statement; nil keeps the stored one.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, from, to models.OrderStatus, cancellation *models.Cancellation) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var cancellationArg any
	if cancellation != nil {
		cancellationJSON, err := json.Marshal(cancellation)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cancellation: %w", err)
		}
		cancellationArg = cancellationJSON
	}

	query := `
		UPDATE orders SET status = $1, cancellation = COALESCE($2::jsonb, cancellation), updated_at = NOW()
		WHERE order_id = $3 AND status = $4
		RETURNING ` + orderSelectColumns

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, to, cancellationArg, orderID, from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatusConflict
		}

		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

// CancelPending sets status and cancellation in a single statement, and only while the order is pending.
func (r *orderRepository) CancelPending(ctx context.Context, orderID, ownerID string, cancellation models.Cancellation) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cancellationJSON, err := json.Marshal(cancellation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cancellation: %w", err)
	}

	query := `
		UPDATE orders SET status = $1, cancellation = $2, updated_at = NOW()
		WHERE order_id = $3 AND owner_id = $4 AND status = $5
		RETURNING ` + orderSelectColumns

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, models.OrderStatusCancelled, cancellationJSON, orderID, ownerID, models.OrderStatusPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatusConflict
		}

		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) Delete(ctx context.Context, orderID string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return ErrOrderNotFound
	}

	return nil
}
