package handlers

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/payu"
	"github.com/go-playground/validator/v10"
)

const gatewayOrigins = "https://test.payu.in https://secure.payu.in"

type PaymentHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
	frontendURL     string
	validator       *validator.Validate
}

func NewPaymentHandler(checkoutService service.CheckoutService, orderService service.OrderService, frontendURL string) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		frontendURL:     strings.TrimRight(frontendURL, "/"),
		validator:       validator.New(),
	}
}

// InitiateCheckout answers with an HTML page that posts the signed form to the gateway.
func (h *PaymentHandler) InitiateCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := currentUser(w, r, "initiate checkout")
		if !ok {
			return
		}

		var req models.InitiateCheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		form, err := h.checkoutService.InitiateCheckout(r.Context(), user, &req)
		if err != nil {
			logger.Warn("Failed to initiate checkout", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		nonce, err := newNonce()
		if err != nil {
			logger.Error("Failed to generate script nonce", slog.Any("error", err))
			response.Error(w, errors.InternalError("Failed to render payment page").WithError(err))
			return
		}

		var page bytes.Buffer
		if err := payu.RenderForm(&page, form, nonce); err != nil {
			logger.Error("Failed to render payment form", slog.Any("error", err))
			response.Error(w, errors.InternalError("Failed to render payment page").WithError(err))
			return
		}

		w.Header().Set("Content-Security-Policy", fmt.Sprintf(
			"default-src 'none'; script-src 'self' 'nonce-%s' %s; form-action %s", nonce, gatewayOrigins, gatewayOrigins))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page.Bytes())

		logger.Info("Checkout initiated", slog.String("txnId", form.Get("txnid")))
	}
}

// PayUSuccess handles the browser post-back the gateway sends after a payment.
// The body is only used to find the txn id. The payment itself is re-verified
// with the gateway before any order is written.
func (h *PaymentHandler) PayUSuccess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		txnID := callbackTxnID(r)
		if txnID == "" {
			logger.Warn("Gateway success callback without txn id")
			http.Redirect(w, r, h.failureURL(), http.StatusSeeOther)
			return
		}

		outcome := h.orderService.HandleGatewayCallback(r.Context(), txnID)
		if !outcome.Success {
			http.Redirect(w, r, h.failureURL(), http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, h.orderURL(outcome), http.StatusSeeOther)
	}
}

func (h *PaymentHandler) PayUFailure() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		h.orderService.HandleGatewayFailure(r.Context(), callbackTxnID(r))

		http.Redirect(w, r, h.failureURL(), http.StatusSeeOther)
	}
}

func (h *PaymentHandler) orderURL(outcome models.CallbackOutcome) string {
	target := h.frontendURL + "/orders/" + url.PathEscape(outcome.OrderID) + "?paymentSuccess=true"
	if outcome.Duplicate {
		target += "&alreadyPaid=true"
	}

	return target
}

func (h *PaymentHandler) failureURL() string {
	return h.frontendURL + "/payment/payment-failed"
}

func callbackTxnID(r *http.Request) string {
	if err := r.ParseForm(); err == nil {
		if txnID := strings.TrimSpace(r.PostForm.Get("txnid")); txnID != "" {
			return txnID
		}
	}

	return strings.TrimSpace(r.PathValue("txnid"))
}

func newNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
