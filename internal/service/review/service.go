package review

import (
	"context"
	"strings"

	"github.com/Additional-Code/geosstore/internal/entity"
	repo "github.com/Additional-Code/geosstore/internal/repository/review"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

const (
	recentLimit   = 20
	defaultRating = 5
)

// CreateInput is a new testimonial.
type CreateInput struct {
	CustomerName string `json:"customer_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	ProductID    *int64 `json:"product_id"`
}

// Service manages storefront reviews.
type Service struct {
	repo *repo.Repository
}

// NewService wires a new Service instance.
func NewService(r *repo.Repository) *Service {
	return &Service{repo: r}
}

// Recent returns the newest reviews.
func (s *Service) Recent(ctx context.Context) ([]*entity.Review, error) {
	reviews, err := s.repo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, errorbank.Internal("failed to list reviews", errorbank.WithCause(err))
	}
	return reviews, nil
}

// Create stores a review. A missing rating counts as 5; others clamp to 1..5.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Review, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, errorbank.BadRequest("customer_name is required")
	}
	review := &entity.Review{
		CustomerName: name,
		Rating:       ClampRating(in.Rating),
		Comment:      strings.TrimSpace(in.Comment),
		ProductID:    in.ProductID,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, errorbank.Internal("failed to create review", errorbank.WithCause(err))
	}
	return review, nil
}

// Delete removes a review.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return errorbank.Internal("failed to delete review", errorbank.WithCause(err))
	}
	return nil
}

// ClampRating maps a submitted rating onto 1..5, treating 0 as unset.
func ClampRating(r int) int {
	switch {
	case r == 0:
		return defaultRating
	case r < 1:
		return 1
	case r > 5:
		return 5
	default:
		return r
	}
}
