package pending

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/cache"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
)

// RedisStore keeps records in redis. Take is a GETDEL, so consume-once holds
// across every instance sharing the redis. The key TTL does the sweeping and
// ExpiresAt is checked again on read.
type RedisStore struct {
	cache        cache.Cache
	ttl          time.Duration
	now          func() time.Time
	newReference func() (string, error)
}

func NewRedisStore(c cache.Cache, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{
		cache:        c,
		ttl:          ttl,
		now:          time.Now,
		newReference: NewReference,
	}
}

func (s *RedisStore) Put(ctx context.Context, payload models.CheckoutPayload) (*models.PendingPaymentRecord, error) {
	reference, err := s.newReference()
	if err != nil {
		return nil, err
	}

	record := newRecord(payload, reference, s.now().UTC(), s.ttl)

	if err := s.cache.Set(ctx, cache.Key(cache.PendingPaymentKeyPrefix, reference), record, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store pending payment: %w", err)
	}

	return record, nil
}

func (s *RedisStore) Take(ctx context.Context, reference string) (*models.PendingPaymentRecord, error) {
	if reference == "" {
		return nil, ErrMiss
	}

	var record models.PendingPaymentRecord

	found, err := s.cache.Take(ctx, cache.Key(cache.PendingPaymentKeyPrefix, reference), &record)
	if err != nil {
		return nil, fmt.Errorf("failed to take pending payment: %w", err)
	}

	if !found || record.Expired(s.now()) {
		return nil, ErrMiss
	}

	return &record, nil
}

func (s *RedisStore) Peek(ctx context.Context, reference string) (*models.PendingPaymentRecord, error) {
	if reference == "" {
		return nil, ErrMiss
	}

	var record models.PendingPaymentRecord

	found, err := s.cache.Get(ctx, cache.Key(cache.PendingPaymentKeyPrefix, reference), &record)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending payment: %w", err)
	}

	if !found || record.Expired(s.now()) {
		return nil, ErrMiss
	}

	return &record, nil
}
