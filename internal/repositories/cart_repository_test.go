package repository_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartRepoTest(t *testing.T) (repository.CartRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewCartRepo(db), mock
}

func TestCartRepository_GetCart(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupCartRepoTest(t)
		items := []models.CartLine{{ProductID: "A", Quantity: 2}, {ProductID: "B", Quantity: 1}}
		itemsJSON, err := json.Marshal(items)
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT user_id, items, updated_at FROM carts WHERE user_id = \$1`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "items", "updated_at"}).AddRow("user-1", itemsJSON, now))

		// Act
		cart, err := repo.GetCart(ctx, "user-1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "user-1", cart.UserID)
		assert.Equal(t, items, cart.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		mock.ExpectQuery(`FROM carts`).WithArgs("nobody").WillReturnRows(sqlmock.NewRows([]string{"user_id", "items", "updated_at"}))

		cart, err := repo.GetCart(ctx, "nobody")

		assert.Nil(t, cart)
		assert.ErrorIs(t, err, repository.ErrCartNotFound)
	})

	t.Run("Corrupt items", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		mock.ExpectQuery(`FROM carts`).WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "items", "updated_at"}).AddRow("user-1", []byte(`{`), now))

		_, err := repo.GetCart(ctx, "user-1")

		assert.ErrorContains(t, err, "failed to unmarshal cart items")
	})
}

func TestCartRepository_ReplaceCart(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Upserts the whole cart", func(t *testing.T) {
		// Arrange
		repo, mock := setupCartRepoTest(t)
		cart := &models.Cart{UserID: "user-1", Items: []models.CartLine{{ProductID: "A", Quantity: 3}}}
		itemsJSON, err := json.Marshal(cart.Items)
		require.NoError(t, err)

		mock.ExpectQuery(`INSERT INTO carts .* ON CONFLICT \(user_id\) DO UPDATE SET items = EXCLUDED.items`).
			WithArgs("user-1", itemsJSON).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

		// Act
		err = repo.ReplaceCart(ctx, cart)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, now, cart.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nil items stored as empty array", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		mock.ExpectQuery(`INSERT INTO carts`).
			WithArgs("user-1", []byte(`[]`)).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

		require.NoError(t, repo.ReplaceCart(ctx, &models.Cart{UserID: "user-1"}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		dbErr := errors.New("connection reset")
		mock.ExpectQuery(`INSERT INTO carts`).WillReturnError(dbErr)

		err := repo.ReplaceCart(ctx, &models.Cart{UserID: "user-1"})

		assert.ErrorIs(t, err, dbErr)
		assert.ErrorContains(t, err, "failed to replace cart")
	})
}
