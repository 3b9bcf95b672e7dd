package order

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/geosstore/internal/database"
	"github.com/Additional-Code/geosstore/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/geosstore/repository/order")

var (
	// ErrNotFound is returned when an order is missing.
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateNumber is returned when the generated order number already exists.
	ErrDuplicateNumber = errors.New("duplicate order number")
	// ErrProductNotFound is returned when a line references a missing product.
	ErrProductNotFound = errors.New("referenced product not found")
	// ErrInsufficientStock is returned by guarded decrements that cannot be covered.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStatusChanged is returned when a conditional status update lost a race.
	ErrStatusChanged = errors.New("order status changed concurrently")
)

// Tx is the set of writes order placement performs inside one transaction.
type Tx interface {
	InsertOrder(ctx context.Context, order *entity.Order) error
	InsertItem(ctx context.Context, item *entity.OrderItem) error
	// DecrementStock lowers stock by qty, clamping at zero.
	DecrementStock(ctx context.Context, productID int64, qty int) error
	// ReserveStock lowers stock by qty only when enough units are available.
	ReserveStock(ctx context.Context, productID int64, qty int) error
}

// ListFilter narrows order listings.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// Repository encapsulates read/write access for orders.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// RunInTx runs fn inside a writer transaction. The transaction commits when fn
// returns nil and rolls back on error or panic; the connection is always released.
func (r *Repository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.RunInTx")
	defer span.End()

	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &session{tx: tx})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction rolled back")
	}
	return err
}

// GetByID fetches an order and its lines using the read replica when available.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().
		Model(order).
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("oi.id ASC")
		}).
		Where("o.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// List returns orders newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List", trace.WithAttributes(attribute.String("order.status", filter.Status)))
	defer span.End()

	orders := make([]*entity.Order, 0)
	q := r.reader.NewSelect().
		Model(&orders).
		Order("o.created_at DESC", "o.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset)
	if filter.Status != "" {
		q = q.Where("o.status = ?", filter.Status)
	}
	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// Recent returns the newest orders with their lines.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Recent")
	defer span.End()

	orders := make([]*entity.Order, 0)
	err := r.reader.NewSelect().
		Model(&orders).
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("oi.id ASC")
		}).
		Order("o.created_at DESC", "o.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// Search matches order number, customer names, email or phone, case-insensitively.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Search")
	defer span.End()

	pattern := "%" + strings.ToLower(query) + "%"
	orders := make([]*entity.Order, 0)
	err := r.reader.NewSelect().
		Model(&orders).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(o.order_number) LIKE ?", pattern).
				WhereOr("LOWER(o.first_name) LIKE ?", pattern).
				WhereOr("LOWER(o.last_name) LIKE ?", pattern).
				WhereOr("o.phone LIKE ?", pattern).
				WhereOr("LOWER(o.email) LIKE ?", pattern)
		}).
		Order("o.created_at DESC", "o.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves an order from one status to another. The update only
// applies when the stored status still equals from.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", to),
	))
	defer span.End()

	res, err := r.writer.NewUpdate().
		Model((*entity.Order)(nil)).
		Set("status = ?", to).
		Where("id = ?", id).
		Where("status = ?", from).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrStatusChanged
	}
	return nil
}

type session struct {
	tx bun.Tx
}

func (s *session) InsertOrder(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.InsertOrder", trace.WithAttributes(attribute.String("order.number", order.Number)))
	defer span.End()

	if _, err := s.tx.NewInsert().Model(order).Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		if database.IsUniqueViolation(err) {
			return ErrDuplicateNumber
		}
		return err
	}
	return nil
}

func (s *session) InsertItem(ctx context.Context, item *entity.OrderItem) error {
	if item == nil {
		return errors.New("nil order item")
	}
	if _, err := s.tx.NewInsert().Model(item).Exec(ctx); err != nil {
		if database.IsForeignKeyViolation(err) && item.ProductID != nil {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}

func (s *session) DecrementStock(ctx context.Context, productID int64, qty int) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.DecrementStock", trace.WithAttributes(
		attribute.Int64("product.id", productID),
		attribute.Int("quantity", qty),
	))
	defer span.End()

	// The new value is derived from the row's current value in the same
	// statement so concurrent placements never lose an update.
	res, err := s.tx.NewUpdate().
		Model((*entity.Product)(nil)).
		Set("stock = CASE WHEN stock > ? THEN stock - ? ELSE 0 END", qty, qty).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", productID).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil || n > 0 {
		return err
	}
	// Some drivers count changed rather than matched rows, and a product
	// already at zero is left unchanged.
	return s.productExists(ctx, productID)
}

// productExists returns ErrProductNotFound when no product has the id.
func (s *session) productExists(ctx context.Context, productID int64) error {
	exists, err := s.tx.NewSelect().Model((*entity.Product)(nil)).Where("id = ?", productID).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return ErrProductNotFound
	}
	return nil
}

func (s *session) ReserveStock(ctx context.Context, productID int64, qty int) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ReserveStock", trace.WithAttributes(
		attribute.Int64("product.id", productID),
		attribute.Int("quantity", qty),
	))
	defer span.End()

	res, err := s.tx.NewUpdate().
		Model((*entity.Product)(nil)).
		Set("stock = stock - ?", qty).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", productID).
		Where("stock >= ?", qty).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil || n > 0 {
		return err
	}

	if err := s.productExists(ctx, productID); err != nil {
		return err
	}
	return ErrInsufficientStock
}
