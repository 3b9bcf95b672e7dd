package newsletter

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/Additional-Code/geosstore/internal/database"
	"github.com/Additional-Code/geosstore/internal/entity"
)

// Repository stores newsletter subscribers.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{writer: conns.Writer, reader: conns.Reader}
}

// Subscribe adds email; an existing subscription is left untouched.
func (r *Repository) Subscribe(ctx context.Context, email string) error {
	sub := &entity.Subscriber{Email: email, SubscribedAt: time.Now().UTC()}
	_, err := r.writer.NewInsert().Model(sub).Ignore().Exec(ctx)
	return err
}

// List returns subscribers newest first.
func (r *Repository) List(ctx context.Context) ([]*entity.Subscriber, error) {
	subs := make([]*entity.Subscriber, 0)
	if err := r.reader.NewSelect().Model(&subs).Order("ns.subscribed_at DESC", "ns.id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	return subs, nil
}

// Delete removes a subscriber by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.writer.NewDelete().Model((*entity.Subscriber)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
