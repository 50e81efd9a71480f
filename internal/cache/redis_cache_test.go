package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/cache"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	ProductID string  `json:"product_id"`
	Price     float64 `json:"price"`
}

func setup(t *testing.T) (cache.Cache, redismock.ClientMock, *config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.CacheConfig{DefaultTTL: 10 * time.Minute}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func TestGet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.ProductKeyPrefix, "sku-1")
	value := snapshot{ProductID: "sku-1", Price: 499}
	data, err := json.Marshal(value)
	require.NoError(t, err)

	t.Run("Hit", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetVal(string(data))

		// Act
		var got snapshot
		found, err := redisCache.Get(ctx, key, &got)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, value, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetErr(redis.Nil)

		var got snapshot
		found, err := redisCache.Get(ctx, key, &got)

		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		expectedErr := errors.New("connection refused")
		mock.ExpectGet(key).SetErr(expectedErr)

		var got snapshot
		found, err := redisCache.Get(ctx, key, &got)

		require.Error(t, err)
		assert.False(t, found)
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("Corrupt payload", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetVal(`{"price":"free"}`)

		var got snapshot
		found, err := redisCache.Get(ctx, key, &got)

		require.Error(t, err)
		assert.False(t, found)
		assert.Contains(t, err.Error(), "failed to unmarshal cache data")
	})
}

func TestTake(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.PendingPaymentKeyPrefix, "ref")
	value := snapshot{ProductID: "sku-2", Price: 10}
	data, err := json.Marshal(value)
	require.NoError(t, err)

	t.Run("First take returns value", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		mock.ExpectGetDel(key).SetVal(string(data))
		mock.ExpectGetDel(key).SetErr(redis.Nil)

		// Act
		var first, second snapshot
		found, err := redisCache.Take(ctx, key, &first)
		require.NoError(t, err)
		foundAgain, err := redisCache.Take(ctx, key, &second)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, value, first)
		assert.False(t, foundAgain)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		expectedErr := errors.New("timeout")
		mock.ExpectGetDel(key).SetErr(expectedErr)

		var got snapshot
		found, err := redisCache.Take(ctx, key, &got)

		require.Error(t, err)
		assert.False(t, found)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "failed to take key")
	})
}

func TestSet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.ProductKeyPrefix, "sku-3")
	value := snapshot{ProductID: "sku-3", Price: 1}
	data, err := json.Marshal(value)
	require.NoError(t, err)

	t.Run("Explicit TTL", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectSet(key, data, 5*time.Minute).SetVal("OK")

		require.NoError(t, redisCache.Set(ctx, key, value, 5*time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Default TTL", func(t *testing.T) {
		redisCache, mock, cfg := setup(t)
		mock.ExpectSet(key, data, cfg.DefaultTTL).SetVal("OK")

		require.NoError(t, redisCache.Set(ctx, key, value, 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unmarshallable value", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		err := redisCache.Set(ctx, key, make(chan int), time.Minute)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to marshal value")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDelete(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.PendingPaymentKeyPrefix, "gone")

	redisCache, mock, _ := setup(t)
	mock.ExpectDel(key).SetVal(1)
	mock.ExpectDel(key).SetErr(errors.New("DEL failed"))

	require.NoError(t, redisCache.Delete(ctx, key))
	assert.Error(t, redisCache.Delete(ctx, key))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "pending_payment:abc", cache.Key(cache.PendingPaymentKeyPrefix, "abc"))
	assert.Equal(t, "prefix:", cache.Key("prefix", ""))
}
