package newsletter

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Additional-Code/geosstore/internal/entity"
	repo "github.com/Additional-Code/geosstore/internal/repository/newsletter"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

var validate = validator.New()

// Service manages newsletter subscriptions.
type Service struct {
	repo *repo.Repository
}

// NewService wires a new Service instance.
func NewService(r *repo.Repository) *Service {
	return &Service{repo: r}
}

// Subscribe records email. Subscribing twice is not an error.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email,max=255"); err != nil {
		return errorbank.BadRequest("a valid email is required", errorbank.WithCause(err))
	}
	if err := s.repo.Subscribe(ctx, email); err != nil {
		return errorbank.Internal("failed to subscribe", errorbank.WithCause(err))
	}
	return nil
}

// List returns subscribers newest first.
func (s *Service) List(ctx context.Context) ([]*entity.Subscriber, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, errorbank.Internal("failed to list subscribers", errorbank.WithCause(err))
	}
	return subs, nil
}

// Delete removes a subscriber.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return errorbank.Internal("failed to delete subscriber", errorbank.WithCause(err))
	}
	return nil
}
