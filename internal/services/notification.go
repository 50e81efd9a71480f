package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/sendgrid"
	"github.com/google/uuid"
)

type NotificationService interface {
	NotifyCustomer(ctx context.Context, order *models.Order) error
	NotifyOperations(ctx context.Context, order *models.Order) error
	ListByOrder(ctx context.Context, orderID string) ([]*models.Notification, error)
}

type notificationService struct {
	repo            repository.NotificationRepository
	emailService    sendgrid.EmailService
	operationsEmail string
}

func NewNotificationService(repo repository.NotificationRepository, emailService sendgrid.EmailService, operationsEmail string) NotificationService {
	return &notificationService{repo: repo, emailService: emailService, operationsEmail: operationsEmail}
}

var customerEmailTemplate = template.Must(template.New("customer").Funcs(emailFuncs).Parse(`<div style="font-family:Arial, sans-serif;line-height:1.6;">
<h2>Your order {{.OrderID}} is confirmed</h2>
<p>Thank you for your purchase!</p>
<h3>Order details</h3>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Email:</strong> {{.CustomerEmail}}</p>
<p><strong>Payment method:</strong> {{upper .PaymentMethod}}</p>
{{with .GatewayTxnID}}<p><strong>Transaction ID:</strong> {{.}}</p>{{end}}
<table style="width:100%;border-collapse:collapse;">
<thead><tr><th align="left">Product</th><th>Qty</th><th align="right">Price</th><th align="right">Total</th></tr></thead>
<tbody>
{{range .Items}}<tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{money .UnitPrice}}</td><td align="right">{{lineTotal .}}</td></tr>
{{end}}</tbody>
</table>
<p><strong>Grand total:</strong> {{money .TotalAmount}}</p>
<p>Regards,<br/>Support Team</p>
</div>`))

var operationsEmailTemplate = template.Must(template.New("operations").Funcs(emailFuncs).Parse(`<div style="font-family:Arial, sans-serif;line-height:1.6;">
<h2>New order received</h2>
<h3>Order ID: {{.OrderID}}</h3>
<p><strong>Customer:</strong> {{.CustomerName}} &lt;{{.CustomerEmail}}&gt; {{.Phone}}</p>
<p><strong>Payment method:</strong> {{.PaymentMethod}}</p>
<p><strong>Gateway payment ID:</strong> {{.GatewayPaymentID}}</p>
{{with .GatewayTxnID}}<p><strong>Gateway txn ID:</strong> {{.}}</p>{{end}}
<p><strong>Status:</strong> {{.Status}}</p>
<p><strong>Order date:</strong> {{.CreatedAt.Format "2006-01-02 15:04 MST"}}</p>
<p><strong>Billing address:</strong> {{.BillingAddress.Address}}, {{.BillingAddress.City}}, {{.BillingAddress.State}} {{.BillingAddress.PostalCode}}, {{.BillingAddress.Country}}</p>
<table style="width:100%;border-collapse:collapse;">
<thead><tr><th align="left">Product</th><th align="left">ID</th><th>Qty</th><th align="right">Price</th><th align="right">Total</th></tr></thead>
<tbody>
{{range .Items}}<tr><td>{{.Name}}</td><td>{{.ProductID}}</td><td align="center">{{.Quantity}}</td><td align="right">{{money .UnitPrice}}</td><td align="right">{{lineTotal .}}</td></tr>
{{end}}</tbody>
</table>
<p><strong>Grand total:</strong> {{money .TotalAmount}}</p>
</div>`))

var emailFuncs = template.FuncMap{
	"money":     func(v float64) string { return fmt.Sprintf("₹%.2f", v) },
	"lineTotal": func(item models.OrderLineItem) string { return fmt.Sprintf("₹%.2f", item.UnitPrice*float64(item.Quantity)) },
	"upper":     func(m models.PaymentMethod) string { return strings.ToUpper(string(m)) },
}

func (n *notificationService) NotifyCustomer(ctx context.Context, order *models.Order) error {
	if order.CustomerEmail == "" {
		return appErrors.ValidationError("Order has no customer email")
	}

	return n.send(ctx, order, customerEmailTemplate, &sendgrid.Email{
		To:      order.CustomerEmail,
		ToName:  order.CustomerName,
		Subject: fmt.Sprintf("Your Order %s - Confirmation", order.OrderID),
	})
}

func (n *notificationService) NotifyOperations(ctx context.Context, order *models.Order) error {
	if n.operationsEmail == "" {
		middleware.LoggerFromContext(ctx).Warn("Operations email not configured, skipping order notification",
			slog.String("orderId", order.OrderID))
		return nil
	}

	return n.send(ctx, order, operationsEmailTemplate, &sendgrid.Email{
		To:      n.operationsEmail,
		Subject: fmt.Sprintf("New order %s", order.OrderID),
	})
}

// send records the attempt, delivers it and stores the outcome. A failure to
// record the outcome does not turn a delivered email into an error.
func (n *notificationService) send(ctx context.Context, order *models.Order, tmpl *template.Template, email *sendgrid.Email) error {

	logger := middleware.LoggerFromContext(ctx).With(slog.String("orderId", order.OrderID), slog.String("template", tmpl.Name()))

	var body bytes.Buffer
	if err := tmpl.Execute(&body, order); err != nil {
		return fmt.Errorf("failed to render %s email: %w", tmpl.Name(), err)
	}
	email.HTMLContent = body.String()
	email.Content = fmt.Sprintf("Order %s, total %.2f", order.OrderID, order.TotalAmount)

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeEmail,
		OrderID:   order.OrderID,
		Recipient: email.To,
		Subject:   email.Subject,
		Content:   email.HTMLContent,
		Status:    models.StatusPending,
	}

	// The email still goes out when the audit record cannot be written.
	recorded := true
	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		recorded = false
		logger.Error("Failed to create notification record", slog.String("error", err.Error()))
	}

	if err := n.emailService.Send(ctx, email); err != nil {
		if recorded {
			if updateErr := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusFailed, err.Error(), nil); updateErr != nil {
				logger.Error("Failed to record notification failure", slog.String("error", updateErr.Error()))
			}
		}

		return fmt.Errorf("failed to send email: %w", err)
	}

	if recorded {
		sentAt := time.Now()
		if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusSent, "", &sentAt); err != nil {
			logger.Error("Email sent but notification status not updated", slog.String("error", err.Error()))
		}
	}

	logger.Info("Order email sent", slog.String("recipient", email.To))

	return nil
}

func (n *notificationService) ListByOrder(ctx context.Context, orderID string) ([]*models.Notification, error) {

	notifications, err := n.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list notifications").WithError(err)
	}

	return notifications, nil
}
