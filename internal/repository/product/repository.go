package product

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

var repoTracer = otel.Tracer("github.com/Additional-Code/geosstore/repository/product")

// ErrNotFound is returned when a product is missing.
var ErrNotFound = errors.New("product not found")

// Sort orders understood by List.
const (
	SortNewest    = ""
	SortPriceAsc  = "preco-asc"
	SortPriceDesc = "preco-desc"
	SortName      = "nome"
	SortPopular   = "popular"
)

// Filter narrows catalog listings.
type Filter struct {
	Status   string
	Category string
	Search   string
	Featured bool
	IsNew    bool
	Sort     string
	Limit    int
	Offset   int
}

// Inventory holds the fields a worker may change on the shop floor.
type Inventory struct {
	Sizes    string
	Stock    int
	Color    string
	Location string
}

// Repository encapsulates catalog reads and writes.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{writer: conns.Writer, reader: conns.Reader}
}

// List returns one page of products matching filter and the total match count.
func (r *Repository) List(ctx context.Context, filter Filter) ([]*entity.Product, int, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.List", trace.WithAttributes(
		attribute.String("product.category", filter.Category),
		attribute.String("product.sort", filter.Sort),
	))
	defer span.End()

	products := make([]*entity.Product, 0)
	base := func() *bun.SelectQuery {
		q := r.reader.NewSelect().Model(&products).Where("p.status = ?", filter.Status)
		if filter.Category != "" {
			q = q.Where("p.category = ?", filter.Category)
		}
		if filter.Search != "" {
			pattern := "%" + strings.ToLower(filter.Search) + "%"
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("LOWER(p.name) LIKE ?", pattern).WhereOr("LOWER(p.brand) LIKE ?", pattern)
			})
		}
		if filter.Featured {
			q = q.Where("p.featured = ?", true)
		}
		if filter.IsNew {
			q = q.Where("p.is_new = ?", true)
		}
		return q
	}

	total, err := base().Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return nil, 0, err
	}

	q := base()
	switch filter.Sort {
	case SortPriceAsc:
		q = q.Order("p.price ASC")
	case SortPriceDesc:
		q = q.Order("p.price DESC")
	case SortName:
		q = q.Order("p.name ASC")
	case SortPopular:
		q = q.Order("p.featured DESC", "p.created_at DESC")
	default:
		q = q.Order("p.created_at DESC")
	}
	q = q.Order("p.id DESC").Limit(filter.Limit).Offset(filter.Offset)

	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID fetches a single product.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.GetByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product := new(entity.Product)
	err := r.reader.NewSelect().Model(product).Where("p.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return product, nil
}

// Create inserts a product.
func (r *Repository) Create(ctx context.Context, product *entity.Product) error {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if _, err := r.writer.NewInsert().Model(product).Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return err
	}
	return nil
}

// Update replaces every editable column of a product.
func (r *Repository) Update(ctx context.Context, product *entity.Product) error {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Update", trace.WithAttributes(attribute.Int64("product.id", product.ID)))
	defer span.End()

	product.UpdatedAt = time.Now().UTC()
	res, err := r.writer.NewUpdate().
		Model(product).
		ExcludeColumn("id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateInventory changes sizes, stock, color and location of a product.
func (r *Repository) UpdateInventory(ctx context.Context, id int64, inv Inventory) error {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.UpdateInventory", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	res, err := r.writer.NewUpdate().
		Model((*entity.Product)(nil)).
		Set("sizes = ?", inv.Sizes).
		Set("stock = ?", inv.Stock).
		Set("color = ?", inv.Color).
		Set("location = ?", inv.Location).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product. Historical order lines keep their snapshot.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.Product)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of catalog rows.
func (r *Repository) Count(ctx context.Context) (int, error) {
	return r.reader.NewSelect().Model((*entity.Product)(nil)).Count(ctx)
}

// CreateMany inserts products in one statement.
func (r *Repository) CreateMany(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
	}
	_, err := r.writer.NewInsert().Model(&products).Exec(ctx)
	return err
}
