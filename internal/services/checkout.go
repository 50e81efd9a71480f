package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/pending"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/payu"
)

type CheckoutService interface {
	InitiateCheckout(ctx context.Context, identity *models.Identity, req *models.InitiateCheckoutRequest) (*payu.Form, error)
}

type checkoutService struct {
	products ProductService
	pending  pending.Store
	gateway  payu.Client
	limiter  repository.RateLimitRepository
	newTxnID func() (string, error)
}

func NewCheckoutService(products ProductService, store pending.Store, gateway payu.Client, limiter repository.RateLimitRepository) CheckoutService {
	return &checkoutService{
		products: products,
		pending:  store,
		gateway:  gateway,
		limiter:  limiter,
		newTxnID: payu.NewTxnID,
	}
}

// InitiateCheckout prices the items, parks the payload in the pending cache and
// returns the signed gateway form. Nothing is persisted as an order here.
func (s *checkoutService) InitiateCheckout(ctx context.Context, identity *models.Identity, req *models.InitiateCheckoutRequest) (*payu.Form, error) {

	logger := middleware.LoggerFromContext(ctx)

	if identity.Email == "" {
		return nil, appErrors.ValidationError("An email address is required to check out")
	}

	if s.limiter != nil {
		allowed, _, retryAfter, err := s.limiter.CheckCheckoutRateLimit(ctx, identity.ID)
		if err != nil {
			return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
		}

		if !allowed {
			return nil, appErrors.TooManyRequestsError("Too many checkout attempts. Please try again later.").
				WithDetail(fmt.Sprintf("retry after %d seconds", retryAfter))
		}
	}

	contact := sanitizeContact(req.Contact)

	items, total, err := priceLines(ctx, s.products, req.Items)
	if err != nil {
		return nil, err
	}

	record, err := s.pending.Put(ctx, models.CheckoutPayload{
		OwnerID:     identity.ID,
		Email:       identity.Email,
		Items:       items,
		TotalAmount: total,
		Contact:     contact,
		FromBuyNow:  req.FromBuyNow,
	})
	if err != nil {
		return nil, appErrors.InternalError("Failed to start checkout").WithError(err)
	}
	metrics.RecordPendingPayment("put")

	txnID, err := s.newTxnID()
	if err != nil {
		return nil, appErrors.InternalError("Failed to start checkout").WithError(err)
	}

	form, err := s.gateway.PaymentForm(payu.PaymentRequest{
		TxnID:       txnID,
		Amount:      total,
		ProductInfo: fmt.Sprintf("Order for %d items", len(items)),
		FirstName:   contact.Name,
		Email:       identity.Email,
		Phone:       contact.Phone,
		UDF:         [payu.UDFCount]string{record.Reference, contact.Phone, contact.Name},
	})
	if err != nil {
		return nil, appErrors.ThirdPartyError("Failed to build payment request").WithError(err)
	}

	metrics.RecordCheckoutInitiated()
	logger.Info("Checkout initiated",
		slog.String("txnId", txnID),
		slog.Int("items", len(items)),
		slog.Float64("amount", total))

	return form, nil
}

// priceLines re-prices cart lines against the catalog. Prices sent by the
// client are never used.
func priceLines(ctx context.Context, products ProductService, lines []models.CartLine) ([]models.OrderLineItem, float64, error) {

	lines = models.NormalizeLines(lines)
	if len(lines) == 0 {
		return nil, 0, appErrors.ValidationError("Cart is empty")
	}

	snapshots, err := products.LookupProducts(ctx, models.ProductIDs(lines))
	if err != nil {
		return nil, 0, err
	}

	byID := make(map[string]models.ProductSnapshot, len(snapshots))
	for _, snapshot := range snapshots {
		byID[snapshot.ProductID] = snapshot
	}

	items := make([]models.OrderLineItem, 0, len(lines))
	var total float64

	for _, line := range lines {
		snapshot, ok := byID[line.ProductID]
		if !ok {
			return nil, 0, appErrors.ValidationError("Product is not available").WithDetail(line.ProductID)
		}

		items = append(items, models.OrderLineItem{
			ProductID: snapshot.ProductID,
			Name:      snapshot.Name,
			UnitPrice: snapshot.Price,
			Quantity:  line.Quantity,
			ImageURL:  snapshot.ImageURL,
		})
		total += snapshot.Price * float64(line.Quantity)
	}

	return items, math.Round(total*100) / 100, nil
}

func sanitizeContact(c models.ContactInfo) models.ContactInfo {
	return models.ContactInfo{
		Name:       utils.SanitizeText(c.Name),
		Phone:      utils.SanitizeText(c.Phone),
		Address:    utils.SanitizeText(c.Address),
		City:       utils.SanitizeText(c.City),
		State:      utils.SanitizeText(c.State),
		PostalCode: utils.SanitizeText(c.PostalCode),
		Country:    utils.SanitizeText(c.Country),
	}
}
