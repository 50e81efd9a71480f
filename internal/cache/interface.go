package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string, value interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Take reads and deletes key in one step. Concurrent callers see the value at most once.
	Take(ctx context.Context, key string, value interface{}) (bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	PendingPaymentKeyPrefix = "pending_payment"
	ProductKeyPrefix        = "product"
)
