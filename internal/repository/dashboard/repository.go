package dashboard

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/Additional-Code/geosstore/internal/database"
	"github.com/Additional-Code/geosstore/internal/entity"
)

// Stats aggregates the back-office headline numbers.
type Stats struct {
	Revenue        int64
	Orders         int
	Leads          int
	Products       int
	OrdersByStatus map[string]int
}

// Repository runs read-only aggregate queries.
type Repository struct {
	reader *bun.DB
}

// NewRepository wires a repository on the read connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader}
}

// Stats computes revenue over non-cancelled orders and table counts.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	err := r.reader.NewSelect().
		Model((*entity.Order)(nil)).
		ColumnExpr("COALESCE(SUM(o.total), 0)").
		Where("o.status != ?", entity.OrderStatusCancelled).
		Scan(ctx, &stats.Revenue)
	if err != nil {
		return Stats{}, fmt.Errorf("revenue: %w", err)
	}

	if stats.Orders, err = r.reader.NewSelect().Model((*entity.Order)(nil)).Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count orders: %w", err)
	}
	if stats.Leads, err = r.reader.NewSelect().Model((*entity.Subscriber)(nil)).Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count subscribers: %w", err)
	}
	if stats.Products, err = r.reader.NewSelect().Model((*entity.Product)(nil)).Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count products: %w", err)
	}

	var rows []struct {
		Status string `bun:"status"`
		Count  int    `bun:"count"`
	}
	err = r.reader.NewSelect().
		Model((*entity.Order)(nil)).
		ColumnExpr("o.status AS status, COUNT(*) AS count").
		GroupExpr("o.status").
		Scan(ctx, &rows)
	if err != nil {
		return Stats{}, fmt.Errorf("orders by status: %w", err)
	}
	stats.OrdersByStatus = make(map[string]int, len(rows))
	for _, row := range rows {
		stats.OrdersByStatus[row.Status] = row.Count
	}

	return stats, nil
}
