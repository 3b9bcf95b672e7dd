package customer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	repo "github.com/Additional-Code/geosstore/internal/repository/customer"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

// Service exposes the customer directory.
type Service struct {
	repo   *repo.Repository
	logger *zap.Logger
}

// NewService wires a new Service instance.
func NewService(r *repo.Repository, logger *zap.Logger) *Service {
	return &Service{repo: r, logger: logger}
}

// List returns customers with their order aggregates.
func (s *Service) List(ctx context.Context) ([]repo.Summary, error) {
	rows, err := s.repo.ListWithStats(ctx)
	if err != nil {
		return nil, errorbank.Internal("failed to list customers", errorbank.WithCause(err))
	}
	return rows, nil
}

// Delete removes a customer account. Their orders are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("customer not found")
		}
		return errorbank.Internal("failed to delete customer", errorbank.WithCause(err))
	}
	if s.logger != nil {
		s.logger.Info("customer deleted", zap.Int64("customer_id", id))
	}
	return nil
}
