package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
)

type ProductService interface {
	// LookupProducts returns snapshots for the ids that exist, in request order.
	// Unknown ids are left out rather than reported as errors.
	LookupProducts(ctx context.Context, ids []string) ([]models.ProductSnapshot, error)
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewProductService(repo repository.ProductRepository, c cache.Cache, ttl time.Duration) ProductService {
	return &productService{repo: repo, cache: c, ttl: ttl}
}

func (s *productService) LookupProducts(ctx context.Context, ids []string) ([]models.ProductSnapshot, error) {

	logger := middleware.LoggerFromContext(ctx)

	found := make(map[string]models.ProductSnapshot, len(ids))
	seen := make(map[string]struct{}, len(ids))
	order := make([]string, 0, len(ids))
	var misses []string

	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		order = append(order, id)

		if s.cache != nil {
			var snapshot models.ProductSnapshot
			hit, err := s.cache.Get(ctx, cache.Key(cache.ProductKeyPrefix, id), &snapshot)
			if err != nil {
				logger.Warn("Product cache read failed", slog.String("productId", id), slog.String("error", err.Error()))
			}
			if hit {
				found[id] = snapshot
				continue
			}
		}

		misses = append(misses, id)
	}

	if len(misses) > 0 {
		products, err := s.repo.GetProductsByIDs(ctx, misses)
		if err != nil {
			return nil, appErrors.DatabaseError("Failed to fetch products").WithError(err)
		}

		for _, product := range products {
			snapshot := product.Snapshot()
			found[product.ProductID] = snapshot

			if s.cache != nil {
				if err := s.cache.Set(ctx, cache.Key(cache.ProductKeyPrefix, product.ProductID), snapshot, s.ttl); err != nil {
					logger.Warn("Product cache write failed", slog.String("productId", product.ProductID), slog.String("error", err.Error()))
				}
			}
		}
	}

	snapshots := make([]models.ProductSnapshot, 0, len(order))
	for _, id := range order {
		if snapshot, ok := found[id]; ok {
			snapshots = append(snapshots, snapshot)
		}
	}

	return snapshots, nil
}
