package worker

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
	// ErrNotFound is returned when a worker is missing.
	ErrNotFound = errors.New("worker not found")
	// ErrEmailTaken is returned when the email already belongs to a worker.
	ErrEmailTaken = errors.New("worker email already registered")
)

// Repository encapsulates staff account storage.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{writer: conns.Writer, reader: conns.Reader}
}

func (r *Repository) Create(ctx context.Context, w *entity.Worker) error {
	w.CreatedAt = time.Now().UTC()
	if _, err := r.writer.NewInsert().Model(w).Exec(ctx); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*entity.Worker, error) {
	w := new(entity.Worker)
	err := r.writer.NewSelect().Model(w).Where("w.email = ?", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *Repository) List(ctx context.Context) ([]*entity.Worker, error) {
	workers := make([]*entity.Worker, 0)
	if err := r.reader.NewSelect().Model(&workers).Order("w.created_at DESC", "w.id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.writer.NewDelete().Model((*entity.Worker)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
