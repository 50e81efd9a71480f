package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repoMocks "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/sendgrid"
	sendgridMocks "github.com/aaravmahajanofficial/storefront-checkout/pkg/sendgrid/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notifiedOrder() *models.Order {
	txnID := testTxnID

	return &models.Order{
		OrderID:          testOrderID,
		OwnerID:          "user-1",
		CustomerEmail:    "asha@example.com",
		CustomerName:     "Asha Rao",
		Items:            []models.OrderLineItem{{ProductID: "game-1", Name: "Game <Key>", UnitPrice: 649.5, Quantity: 2}},
		TotalAmount:      1299,
		PaymentMethod:    models.PaymentMethodCreditCard,
		GatewayPaymentID: "403993715531077182",
		GatewayTxnID:     &txnID,
		Status:           models.OrderStatusProcessing,
		CreatedAt:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNotifyCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Sent and recorded", func(t *testing.T) {
		// Arrange
		mockRepo := repoMocks.NewNotificationRepository(t)
		mockEmail := sendgridMocks.NewEmailService(t)
		notifier := service.NewNotificationService(mockRepo, mockEmail, "ops@example.com")

		mockRepo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
			return n.OrderID == testOrderID && n.Recipient == "asha@example.com" && n.Status == models.StatusPending
		})).Return(nil).Once()
		mockEmail.On("Send", mock.Anything, mock.MatchedBy(func(e *sendgrid.Email) bool {
			return e.To == "asha@example.com" &&
				e.Subject == "Your Order "+testOrderID+" - Confirmation" &&
				assert.Contains(t, e.HTMLContent, "Game &lt;Key&gt;") &&
				assert.Contains(t, e.HTMLContent, "CC") &&
				assert.Contains(t, e.HTMLContent, testTxnID) &&
				assert.Contains(t, e.HTMLContent, "₹1299.00")
		})).Return(nil).Once()
		mockRepo.On("UpdateNotificationStatus", mock.Anything, mock.Anything, models.StatusSent, "", mock.AnythingOfType("*time.Time")).Return(nil).Once()

		// Act
		err := notifier.NotifyCustomer(ctx, notifiedOrder())

		// Assert
		assert.NoError(t, err)
	})

	t.Run("Failure - Send error recorded", func(t *testing.T) {
		// Arrange
		mockRepo := repoMocks.NewNotificationRepository(t)
		mockEmail := sendgridMocks.NewEmailService(t)
		notifier := service.NewNotificationService(mockRepo, mockEmail, "ops@example.com")
		sendErr := errors.New("sendgrid returned status 401")

		mockRepo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil).Once()
		mockEmail.On("Send", mock.Anything, mock.Anything).Return(sendErr).Once()
		mockRepo.On("UpdateNotificationStatus", mock.Anything, mock.Anything, models.StatusFailed, sendErr.Error(), (*time.Time)(nil)).Return(nil).Once()

		// Act
		err := notifier.NotifyCustomer(ctx, notifiedOrder())

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, sendErr)
	})

	t.Run("Success - Email sent when record cannot be stored", func(t *testing.T) {
		// Arrange
		mockRepo := repoMocks.NewNotificationRepository(t)
		mockEmail := sendgridMocks.NewEmailService(t)
		notifier := service.NewNotificationService(mockRepo, mockEmail, "ops@example.com")

		mockRepo.On("CreateNotification", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()
		mockEmail.On("Send", mock.Anything, mock.MatchedBy(func(e *sendgrid.Email) bool {
			return e.To == "asha@example.com"
		})).Return(nil).Once()

		// Act
		err := notifier.NotifyCustomer(ctx, notifiedOrder())

		// Assert
		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "UpdateNotificationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - No customer email", func(t *testing.T) {
		// Arrange
		mockRepo := repoMocks.NewNotificationRepository(t)
		mockEmail := sendgridMocks.NewEmailService(t)
		notifier := service.NewNotificationService(mockRepo, mockEmail, "ops@example.com")
		order := notifiedOrder()
		order.CustomerEmail = ""

		// Act
		err := notifier.NotifyCustomer(ctx, order)

		// Assert
		assert.Error(t, err)
		mockEmail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestNotifyOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Operations address receives order", func(t *testing.T) {
		// Arrange
		mockRepo := repoMocks.NewNotificationRepository(t)
		mockEmail := sendgridMocks.NewEmailService(t)
		notifier := service.NewNotificationService(mockRepo, mockEmail, "ops@example.com")

		mockRepo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil).Once()
		mockEmail.On("Send", mock.Anything, mock.MatchedBy(func(e *sendgrid.Email) bool {
			return e.To == "ops@example.com" && assert.Contains(t, e.HTMLContent, "403993715531077182")
		})).Return(nil).Once()
		mockRepo.On("UpdateNotificationStatus", mock.Anything, mock.Anything, models.StatusSent, "", mock.Anything).Return(nil).Once()

		// Act
		err := notifier.NotifyOperations(ctx, notifiedOrder())

		// Assert
		assert.NoError(t, err)
	})

	t.Run("Skipped - No operations address", func(t *testing.T) {
		// Arrange
		mockRepo := repoMocks.NewNotificationRepository(t)
		mockEmail := sendgridMocks.NewEmailService(t)
		notifier := service.NewNotificationService(mockRepo, mockEmail, "")

		// Act
		err := notifier.NotifyOperations(ctx, notifiedOrder())

		// Assert
		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})
}

func TestListNotificationsByOrder(t *testing.T) {
	// Arrange
	mockRepo := repoMocks.NewNotificationRepository(t)
	notifier := service.NewNotificationService(mockRepo, sendgridMocks.NewEmailService(t), "")
	mockRepo.On("ListByOrder", mock.Anything, testOrderID).Return([]*models.Notification{{OrderID: testOrderID}}, nil).Once()

	// Act
	notifications, err := notifier.ListByOrder(context.Background(), testOrderID)

	// Assert
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}
