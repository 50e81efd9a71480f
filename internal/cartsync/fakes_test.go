package cartsync_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/cartsync"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
)

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true

	return wasActive
}

type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (m *manualScheduler) Schedule(_ time.Duration, fn func()) cartsync.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{fn: fn}
	m.timers = append(m.timers, t)

	return t
}

// FireAll runs every timer that has not been stopped and returns how many ran.
func (m *manualScheduler) FireAll() int {
	m.mu.Lock()
	var active []*manualTimer
	for _, t := range m.timers {
		if !t.stopped {
			t.stopped = true
			active = append(active, t)
		}
	}
	m.mu.Unlock()

	for _, t := range active {
		t.fn()
	}

	return len(active)
}

func (m *manualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, t := range m.timers {
		if !t.stopped {
			count++
		}
	}

	return count
}

type fakeRemote struct {
	mu           sync.Mutex
	carts        map[string][]models.CartLine
	fetchErr     error
	replaceErr   error
	fetchCalls   int
	replaceCalls int
	tokens       []string

	// When set, Fetch signals started and waits for release.
	started chan struct{}
	release chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{carts: map[string][]models.CartLine{}}
}

func (f *fakeRemote) Fetch(ctx context.Context, session cartsync.Session) ([]models.CartLine, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchCalls++
	f.tokens = append(f.tokens, session.Token)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	return append([]models.CartLine(nil), f.carts[session.UserID]...), nil
}

func (f *fakeRemote) Replace(ctx context.Context, session cartsync.Session, lines []models.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.replaceCalls++
	if f.replaceErr != nil {
		return f.replaceErr
	}

	f.carts[session.UserID] = append([]models.CartLine(nil), lines...)

	return nil
}

func (f *fakeRemote) Cart(userID string) []models.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.carts[userID]
}

type fakeLookup struct {
	mu      sync.Mutex
	catalog map[string]models.ProductSnapshot
	err     error
	calls   int
}

func newFakeLookup(ids ...string) *fakeLookup {
	catalog := map[string]models.ProductSnapshot{}
	for i, id := range ids {
		catalog[id] = models.ProductSnapshot{ProductID: id, Name: "Product " + id, Price: float64(100 * (i + 1)), StockQuantity: 10}
	}

	return &fakeLookup{catalog: catalog}
}

func (f *fakeLookup) Lookup(_ context.Context, ids []string) ([]models.ProductSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	var found []models.ProductSnapshot
	for _, id := range ids {
		if p, ok := f.catalog[id]; ok {
			found = append(found, p)
		}
	}

	return found, nil
}

var errUnavailable = errors.New("service unavailable")
