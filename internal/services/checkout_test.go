package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	pendingMocks "github.com/aaravmahajanofficial/storefront-checkout/internal/pending/mocks"
	repoMocks "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/payu"
	payuMocks "github.com/aaravmahajanofficial/storefront-checkout/pkg/payu/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	service  service.CheckoutService
	products *mocks.ProductService
	pending  *pendingMocks.Store
	gateway  *payuMocks.Client
	limiter  *repoMocks.RateLimitRepository
}

func setupCheckoutService(t *testing.T) *checkoutFixture {
	t.Helper()

	f := &checkoutFixture{
		products: mocks.NewProductService(t),
		pending:  pendingMocks.NewStore(t),
		gateway:  payuMocks.NewClient(t),
		limiter:  repoMocks.NewRateLimitRepository(t),
	}

	f.service = service.NewCheckoutService(f.products, f.pending, f.gateway, f.limiter)
	service.SetTxnIDGenerator(f.service, func() (string, error) { return testTxnID, nil })

	return f
}

func checkoutRequest() *models.InitiateCheckoutRequest {
	return &models.InitiateCheckoutRequest{
		Items: []models.CartLine{{ProductID: "game-1", Quantity: 2}, {ProductID: "dlc-7", Quantity: 1}},
		Contact: models.ContactInfo{
			Name: "Asha <script>x</script>Rao", Phone: "9876543210", Address: "1 MG Road",
			City: "Pune", State: "MH", PostalCode: "411001", Country: "IN",
		},
	}
}

func TestInitiateCheckout(t *testing.T) {
	ctx := context.Background()
	identity := &models.Identity{ID: "user-1", Email: "asha@example.com"}

	t.Run("Success - Payload cached and form signed", func(t *testing.T) {
		// Arrange
		f := setupCheckoutService(t)
		form := &payu.Form{Action: "https://test.payu.in/_payment"}

		f.limiter.On("CheckCheckoutRateLimit", mock.Anything, "user-1").Return(true, 4, 0, nil).Once()
		f.products.On("LookupProducts", mock.Anything, []string{"game-1", "dlc-7"}).Return([]models.ProductSnapshot{
			{ProductID: "dlc-7", Name: "Expansion", Price: 199.99},
			{ProductID: "game-1", Name: "Game Key", Price: 649.5},
		}, nil).Once()
		f.pending.On("Put", mock.Anything, mock.MatchedBy(func(p models.CheckoutPayload) bool {
			return p.OwnerID == "user-1" &&
				p.Email == "asha@example.com" &&
				p.TotalAmount == 1498.99 &&
				len(p.Items) == 2 &&
				p.Items[0].UnitPrice == 649.5 &&
				p.Contact.Name == "AshaRao"
		})).Return(&models.PendingPaymentRecord{Reference: testReference}, nil).Once()
		f.gateway.On("PaymentForm", mock.MatchedBy(func(req payu.PaymentRequest) bool {
			return req.TxnID == testTxnID &&
				req.Amount == 1498.99 &&
				req.UDF[0] == testReference &&
				req.UDF[1] == "9876543210" &&
				req.UDF[2] == "AshaRao" &&
				strings.HasPrefix(req.ProductInfo, "Order for 2 items")
		})).Return(form, nil).Once()

		// Act
		got, err := f.service.InitiateCheckout(ctx, identity, checkoutRequest())

		// Assert
		require.NoError(t, err)
		assert.Same(t, form, got)
	})

	t.Run("Failure - Rate limited", func(t *testing.T) {
		// Arrange
		f := setupCheckoutService(t)
		f.limiter.On("CheckCheckoutRateLimit", mock.Anything, "user-1").Return(false, 0, 42, nil).Once()

		// Act
		got, err := f.service.InitiateCheckout(ctx, identity, checkoutRequest())

		// Assert
		assert.Nil(t, got)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeTooManyRequests, appErr.Code)
		assert.Contains(t, appErr.Detail, "42")
		f.pending.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Limiter unavailable", func(t *testing.T) {
		// Arrange
		f := setupCheckoutService(t)
		f.limiter.On("CheckCheckoutRateLimit", mock.Anything, "user-1").Return(false, 0, 0, errors.New("redis down")).Once()

		// Act
		_, err := f.service.InitiateCheckout(ctx, identity, checkoutRequest())

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeThirdPartyError, appErr.Code)
	})

	t.Run("Failure - Unknown product", func(t *testing.T) {
		// Arrange
		f := setupCheckoutService(t)
		f.limiter.On("CheckCheckoutRateLimit", mock.Anything, "user-1").Return(true, 4, 0, nil).Once()
		f.products.On("LookupProducts", mock.Anything, []string{"game-1", "dlc-7"}).
			Return([]models.ProductSnapshot{{ProductID: "game-1", Price: 649.5}}, nil).Once()

		// Act
		_, err := f.service.InitiateCheckout(ctx, identity, checkoutRequest())

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		assert.Equal(t, "dlc-7", appErr.Detail)
		f.pending.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Identity without email", func(t *testing.T) {
		// Arrange
		f := setupCheckoutService(t)

		// Act
		_, err := f.service.InitiateCheckout(ctx, &models.Identity{ID: "user-1"}, checkoutRequest())

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		f.limiter.AssertNotCalled(t, "CheckCheckoutRateLimit", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Pending cache unavailable", func(t *testing.T) {
		// Arrange
		f := setupCheckoutService(t)
		f.limiter.On("CheckCheckoutRateLimit", mock.Anything, "user-1").Return(true, 4, 0, nil).Once()
		f.products.On("LookupProducts", mock.Anything, mock.Anything).Return([]models.ProductSnapshot{
			{ProductID: "dlc-7", Price: 199.99}, {ProductID: "game-1", Price: 649.5},
		}, nil).Once()
		f.pending.On("Put", mock.Anything, mock.Anything).Return(nil, errors.New("redis down")).Once()

		// Act
		_, err := f.service.InitiateCheckout(ctx, identity, checkoutRequest())

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeInternal, appErr.Code)
		f.gateway.AssertNotCalled(t, "PaymentForm", mock.Anything)
	})
}
