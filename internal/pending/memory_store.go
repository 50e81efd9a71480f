package pending

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
)

// MemoryStore is a process-local store. Records do not survive a restart, so
// payments in flight at that moment can no longer be finalized.
type MemoryStore struct {
	mu           sync.Mutex
	records      map[string]models.PendingPaymentRecord
	ttl          time.Duration
	now          func() time.Time
	newReference func() (string, error)
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &MemoryStore{
		records:      make(map[string]models.PendingPaymentRecord),
		ttl:          ttl,
		now:          time.Now,
		newReference: NewReference,
	}
}

func (s *MemoryStore) Put(_ context.Context, payload models.CheckoutPayload) (*models.PendingPaymentRecord, error) {
	reference, err := s.newReference()
	if err != nil {
		return nil, err
	}

	record := newRecord(payload, reference, s.now().UTC(), s.ttl)

	s.mu.Lock()
	s.records[reference] = *record
	s.mu.Unlock()

	return record, nil
}

func (s *MemoryStore) Take(_ context.Context, reference string) (*models.PendingPaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[reference]
	if !ok {
		return nil, ErrMiss
	}

	delete(s.records, reference)

	if record.Expired(s.now()) {
		return nil, ErrMiss
	}

	return &record, nil
}

func (s *MemoryStore) Peek(_ context.Context, reference string) (*models.PendingPaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[reference]
	if !ok {
		return nil, ErrMiss
	}

	if record.Expired(s.now()) {
		delete(s.records, reference)
		return nil, ErrMiss
	}

	return &record, nil
}

// Sweep drops every expired record and reports how many went.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0

	for reference, record := range s.records {
		if record.Expired(now) {
			delete(s.records, reference)
			removed++
		}
	}

	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// RunSweeper sweeps every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				logger.Info("Swept expired pending payments", slog.Int("removed", removed))
			}
		}
	}
}
