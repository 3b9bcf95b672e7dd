// Package staff manages back-office worker accounts.
package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/auth"
	"github.com/Additional-Code/geosstore/internal/entity"
	repo "github.com/Additional-Code/geosstore/internal/repository/worker"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

var validate = validator.New()

// CreateInput describes a new worker.
type CreateInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"max=50"`
	Status   string `json:"status" validate:"max=20"`
}

// Service manages staff accounts.
type Service struct {
	repo   *repo.Repository
	auth   *auth.Authenticator
	logger *zap.Logger
}

// NewService wires a new Service instance.
func NewService(r *repo.Repository, a *auth.Authenticator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: r, auth: a, logger: logger}
}

// List returns workers newest first.
func (s *Service) List(ctx context.Context) ([]*entity.Worker, error) {
	workers, err := s.repo.List(ctx)
	if err != nil {
		return nil, errorbank.Internal("failed to list workers", errorbank.WithCause(err))
	}
	return workers, nil
}

// Create adds a worker with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Worker, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		return nil, errorbank.BadRequest("invalid worker", errorbank.WithCause(err))
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, errorbank.Internal("failed to create worker", errorbank.WithCause(err))
	}
	worker := &entity.Worker{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Status:       in.Status,
	}
	if worker.Role == "" {
		worker.Role = entity.DefaultWorkerRole
	}
	if worker.Status == "" {
		worker.Status = entity.DefaultWorkerStatus
	}

	if err := s.repo.Create(ctx, worker); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, errorbank.Conflict("email already registered")
		}
		return nil, errorbank.Internal("failed to create worker", errorbank.WithCause(err))
	}
	s.logger.Info("worker created", zap.Int64("worker_id", worker.ID), zap.String("role", worker.Role))
	return worker, nil
}

// Delete removes a worker.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return errorbank.Internal("failed to delete worker", errorbank.WithCause(err))
	}
	return nil
}
