package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Additional-Code/geosstore/internal/entity"
	repo "github.com/Additional-Code/geosstore/internal/repository/dashboard"
	orderservice "github.com/Additional-Code/geosstore/internal/service/order"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

// Overview is the back-office landing data.
type Overview struct {
	Stats  repo.Stats
	Recent []*entity.Order
}

// Service assembles dashboard figures.
type Service struct {
	repo   *repo.Repository
	orders *orderservice.Service
}

// NewService wires a new Service instance.
func NewService(r *repo.Repository, orders *orderservice.Service) *Service {
	return &Service{repo: r, orders: orders}
}

// Stats returns revenue and headline counts.
func (s *Service) Stats(ctx context.Context) (repo.Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return repo.Stats{}, errorbank.Internal("failed to compute dashboard stats", errorbank.WithCause(err))
	}
	return stats, nil
}

// RecentOrders returns the newest orders with their lines.
func (s *Service) RecentOrders(ctx context.Context) ([]*entity.Order, error) {
	return s.orders.Recent(ctx)
}

// Overview loads stats and recent orders concurrently.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.Stats(gctx)
		out.Stats = stats
		return err
	})
	g.Go(func() error {
		recent, err := s.RecentOrders(gctx)
		out.Recent = recent
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}
