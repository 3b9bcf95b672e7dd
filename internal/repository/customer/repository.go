package customer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/Additional-Code/geosstore/internal/database"
	"github.com/Additional-Code/geosstore/internal/entity"
)

var (
	// ErrNotFound is returned when a customer is missing.
	ErrNotFound = errors.New("customer not found")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("customer email already registered")
)

// Summary is a customer row enriched with order aggregates.
type Summary struct {
	ID         int64      `bun:"id"`
	FirstName  string     `bun:"first_name"`
	LastName   string     `bun:"last_name"`
	Email      string     `bun:"email"`
	Phone      string     `bun:"phone"`
	CreatedAt  time.Time  `bun:"created_at"`
	OrderCount int64      `bun:"order_count"`
	TotalSpent int64      `bun:"total_spent"`
	FirstOrder *time.Time `bun:"first_order"`
}

// Repository encapsulates customer account storage.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{writer: conns.Writer, reader: conns.Reader}
}

// Create inserts a customer; duplicate emails yield ErrEmailTaken.
func (r *Repository) Create(ctx context.Context, c *entity.Customer) error {
	c.CreatedAt = time.Now().UTC()
	if _, err := r.writer.NewInsert().Model(c).Exec(ctx); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// GetByEmail looks a customer up by normalised email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return r.getWhere(ctx, "c.email = ?", email)
}

// GetByID looks a customer up by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	return r.getWhere(ctx, "c.id = ?", id)
}

func (r *Repository) getWhere(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	c := new(entity.Customer)
	err := r.writer.NewSelect().Model(c).Where(query, arg).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// TouchLastLogin records a successful sign-in.
func (r *Repository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.writer.NewUpdate().
		Model((*entity.Customer)(nil)).
		Set("last_login = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// ListWithStats returns customers newest first with aggregates over their
// non-cancelled orders, matched by email regardless of case.
func (r *Repository) ListWithStats(ctx context.Context) ([]Summary, error) {
	rows := make([]Summary, 0)
	err := r.reader.NewSelect().
		TableExpr("customers AS c").
		ColumnExpr("c.id, c.first_name, c.last_name, c.email, c.phone, c.created_at").
		ColumnExpr("COUNT(o.id) AS order_count").
		ColumnExpr("COALESCE(SUM(o.total), 0) AS total_spent").
		ColumnExpr("MIN(o.created_at) AS first_order").
		Join("LEFT JOIN orders AS o ON LOWER(o.email) = LOWER(c.email) AND o.status != ?", entity.OrderStatusCancelled).
		GroupExpr("c.id, c.first_name, c.last_name, c.email, c.phone, c.created_at").
		OrderExpr("c.created_at DESC, c.id DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a customer account.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.writer.NewDelete().Model((*entity.Customer)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
