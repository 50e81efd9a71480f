package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{"product_id", "name", "description", "price", "image_url", "stock_quantity", "status", "created_at", "updated_at"}

func setupProductRepoTest(t *testing.T) (repository.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewProductRepo(db), mock
}

func TestProductRepository_GetProductsByIDs(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Returns only found products", func(t *testing.T) {
		// Arrange
		repo, mock := setupProductRepoTest(t)
		ids := []string{"A", "B", "missing"}

		mock.ExpectQuery(`WHERE product_id = ANY\(\$1\) AND status = 'active'`).
			WithArgs(pq.Array(ids)).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow("A", "Game A", "", 499.0, "a.png", int64(10), "active", now, now).
				AddRow("B", "Game B", "", 1299.5, "b.png", int64(0), "active", now, now))

		// Act
		products, err := repo.GetProductsByIDs(ctx, ids)

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "A", products[0].ProductID)
		assert.InDelta(t, 1299.5, products[1].Price, 0.001)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No ids skips the query", func(t *testing.T) {
		repo, mock := setupProductRepoTest(t)

		products, err := repo.GetProductsByIDs(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Query error", func(t *testing.T) {
		repo, mock := setupProductRepoTest(t)
		dbErr := errors.New("db down")
		mock.ExpectQuery(`FROM products`).WillReturnError(dbErr)

		_, err := repo.GetProductsByIDs(ctx, []string{"A"})

		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("Row error", func(t *testing.T) {
		repo, mock := setupProductRepoTest(t)
		rowErr := errors.New("row broke")
		mock.ExpectQuery(`FROM products`).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow("A", "Game A", "", 499.0, "a.png", int64(10), "active", now, now).
				RowError(0, rowErr))

		_, err := repo.GetProductsByIDs(ctx, []string{"A"})

		assert.ErrorIs(t, err, rowErr)
	})
}
