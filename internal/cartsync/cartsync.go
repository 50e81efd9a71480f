// Package cartsync keeps a shopper's cart view coherent across identity
// changes. While anonymous the cart lives in a device-local store; once the
// shopper signs in it is merged into the server cart and the local copy is
// removed. Writes are debounced so mutations never wait on I/O.
package cartsync

import (
	"context"
	"errors"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
)

var ErrUnauthenticated = errors.New("cartsync: server rejected credentials")

type SessionState int

const (
	StateAnonymous SessionState = iota
	StateTransitioning
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateTransitioning:
		return "transitioning"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is an authenticated shopper as seen by the client: the verified
// user id plus the bearer credential used against the server cart API.
type Session struct {
	UserID string
	Token  string
}

// LocalStore holds the anonymous cart on the device.
type LocalStore interface {
	Load(ctx context.Context) ([]models.CartLine, error)
	Save(ctx context.Context, lines []models.CartLine) error
	Delete(ctx context.Context) error
}

// RemoteStore is the server-resident cart of an authenticated shopper.
type RemoteStore interface {
	Fetch(ctx context.Context, session Session) ([]models.CartLine, error)
	Replace(ctx context.Context, session Session, lines []models.CartLine) error
}

type ProductLookup interface {
	Lookup(ctx context.Context, ids []string) ([]models.ProductSnapshot, error)
}

// Timer is the cancellation handle of a scheduled write. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

type ScheduleFunc func(delay time.Duration, fn func()) Timer

func afterFunc(delay time.Duration, fn func()) Timer {
	return time.AfterFunc(delay, fn)
}
