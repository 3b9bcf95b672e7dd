package seeder

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	productrepo "github.com/Additional-Code/geosstore/internal/repository/product"
	reviewrepo "github.com/Additional-Code/geosstore/internal/repository/review"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder loads the starter catalog for local/dev setups.
type Seeder struct {
	products *productrepo.Repository
	reviews  *reviewrepo.Repository
	logger   *zap.Logger
}

// New constructs a Seeder.
func New(products *productrepo.Repository, reviews *reviewrepo.Repository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{products: products, reviews: reviews, logger: logger}
}

// Result reports what Catalog inserted.
type Result struct {
	Products int
	Reviews  int
	Skipped  bool
}

// Catalog inserts the starter products and reviews. It does nothing when
// the products table already has rows.
func (s *Seeder) Catalog(ctx context.Context) (Result, error) {
	existing, err := s.products.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count products: %w", err)
	}
	if existing > 0 {
		s.logger.Info("products already exist; skipping seed", zap.Int("products", existing))
		return Result{Skipped: true}, nil
	}

	products := starterProducts()
	if err := s.products.CreateMany(ctx, products); err != nil {
		return Result{}, fmt.Errorf("seed products: %w", err)
	}
	reviews := starterReviews()
	if err := s.reviews.CreateMany(ctx, reviews); err != nil {
		return Result{}, fmt.Errorf("seed reviews: %w", err)
	}

	s.logger.Info("seeded catalog", zap.Int("products", len(products)), zap.Int("reviews", len(reviews)))
	return Result{Products: len(products), Reviews: len(reviews)}, nil
}
