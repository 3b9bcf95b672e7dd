package review

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/Additional-Code/geosstore/internal/database"
	"github.com/Additional-Code/geosstore/internal/entity"
)

// Repository stores storefront reviews.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{writer: conns.Writer, reader: conns.Reader}
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]*entity.Review, error) {
	reviews := make([]*entity.Review, 0)
	err := r.reader.NewSelect().Model(&reviews).Order("r.created_at DESC", "r.id DESC").Limit(limit).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *Repository) Create(ctx context.Context, review *entity.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	_, err := r.writer.NewInsert().Model(review).Exec(ctx)
	return err
}

// CreateMany inserts reviews in one statement.
func (r *Repository) CreateMany(ctx context.Context, reviews []*entity.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, rv := range reviews {
		rv.CreatedAt = now
	}
	_, err := r.writer.NewInsert().Model(&reviews).Exec(ctx)
	return err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.writer.NewDelete().Model((*entity.Review)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
