// Package pending holds checkout payloads between payment initiation and the
// gateway callback. Records are keyed by an opaque reference, live for a fixed
// TTL and can be taken exactly once.
package pending

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
)

// ErrMiss covers unknown, already consumed and expired references alike.
var ErrMiss = errors.New("pending payment not found")

const DefaultTTL = 20 * time.Minute

type Store interface {
	Put(ctx context.Context, payload models.CheckoutPayload) (*models.PendingPaymentRecord, error)
	// Peek reads a live record without consuming it.
	Peek(ctx context.Context, reference string) (*models.PendingPaymentRecord, error)
	Take(ctx context.Context, reference string) (*models.PendingPaymentRecord, error)
}

func NewReference() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate pending reference: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func newRecord(payload models.CheckoutPayload, reference string, now time.Time, ttl time.Duration) *models.PendingPaymentRecord {
	return &models.PendingPaymentRecord{
		Reference: reference,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
