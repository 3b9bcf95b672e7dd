// Package account registers and signs in storefront customers and staff.
package account

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/auth"
	"github.com/Additional-Code/geosstore/internal/entity"
	customerrepo "github.com/Additional-Code/geosstore/internal/repository/customer"
	newsletterrepo "github.com/Additional-Code/geosstore/internal/repository/newsletter"
	workerrepo "github.com/Additional-Code/geosstore/internal/repository/worker"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/geosstore/service/account")

const minPhoneDigits = 9

var validate = validator.New()

// RegisterInput is a storefront sign-up.
type RegisterInput struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Phone      string `json:"phone" validate:"required,max=30"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Newsletter bool   `json:"newsletter"`
}

// CustomerSession is a signed-in customer.
type CustomerSession struct {
	Token    string
	Customer *entity.Customer
}

// WorkerSession is a signed-in staff member.
type WorkerSession struct {
	Token  string
	Worker *entity.Worker
}

// Identity is the verified subject of a token.
type Identity struct {
	ID       int64
	Email    string
	Role     string
	Customer *entity.Customer
}

// Service handles sign-up, sign-in and token checks.
type Service struct {
	customers  *customerrepo.Repository
	workers    *workerrepo.Repository
	newsletter *newsletterrepo.Repository
	auth       *auth.Authenticator
	logger     *zap.Logger
	now        func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Customers     *customerrepo.Repository
	Workers       *workerrepo.Repository
	Newsletter    *newsletterrepo.Repository
	Authenticator *auth.Authenticator
	Logger        *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return New(p.Customers, p.Workers, p.Newsletter, p.Authenticator, p.Logger)
}

// New builds a Service.
func New(customers *customerrepo.Repository, workers *workerrepo.Repository, newsletter *newsletterrepo.Repository, a *auth.Authenticator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		customers:  customers,
		workers:    workers,
		newsletter: newsletter,
		auth:       a,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates a customer account and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*CustomerSession, error) {
	ctx, span := serviceTracer.Start(ctx, "AccountService.Register")
	defer span.End()

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]any, len(verrs))
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
			return nil, errorbank.BadRequest("invalid registration", errorbank.WithDetails(details))
		}
		return nil, errorbank.BadRequest("invalid registration", errorbank.WithCause(err))
	}
	if countDigits(in.Phone) < minPhoneDigits {
		return nil, errorbank.BadRequest("invalid registration", errorbank.WithDetail("Phone", "digits"))
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, errorbank.Internal("failed to register", errorbank.WithCause(err))
	}

	customer := &entity.Customer{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, customerrepo.ErrEmailTaken) {
			return nil, errorbank.Conflict("email already registered")
		}
		s.logger.Error("create customer", zap.Error(err))
		return nil, errorbank.Internal("failed to register", errorbank.WithCause(err))
	}

	if in.Newsletter {
		if err := s.newsletter.Subscribe(ctx, customer.Email); err != nil {
			s.logger.Warn("newsletter opt-in failed", zap.Int64("customer_id", customer.ID), zap.Error(err))
		}
	}

	token, err := s.auth.CustomerToken(customer.ID, customer.Email)
	if err != nil {
		return nil, errorbank.Internal("failed to issue token", errorbank.WithCause(err))
	}
	s.logger.Info("customer registered", zap.Int64("customer_id", customer.ID))
	return &CustomerSession{Token: token, Customer: customer}, nil
}

// Login signs a customer in.
func (s *Service) Login(ctx context.Context, email, password string) (*CustomerSession, error) {
	ctx, span := serviceTracer.Start(ctx, "AccountService.Login")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errorbank.BadRequest("email and password are required")
	}

	customer, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, customerrepo.ErrNotFound) {
			return nil, errorbank.Unauthorized("invalid email or password")
		}
		return nil, errorbank.Internal("failed to sign in", errorbank.WithCause(err))
	}
	if err := s.auth.ComparePassword(customer.PasswordHash, password); err != nil {
		return nil, errorbank.Unauthorized("invalid email or password")
	}

	now := s.now().UTC()
	if err := s.customers.TouchLastLogin(ctx, customer.ID, now); err != nil {
		s.logger.Warn("record last login", zap.Int64("customer_id", customer.ID), zap.Error(err))
	} else {
		customer.LastLogin = &now
	}

	token, err := s.auth.CustomerToken(customer.ID, customer.Email)
	if err != nil {
		return nil, errorbank.Internal("failed to issue token", errorbank.WithCause(err))
	}
	return &CustomerSession{Token: token, Customer: customer}, nil
}

// WorkerLogin signs a staff member in.
func (s *Service) WorkerLogin(ctx context.Context, email, password string) (*WorkerSession, error) {
	ctx, span := serviceTracer.Start(ctx, "AccountService.WorkerLogin")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errorbank.BadRequest("email and password are required")
	}

	worker, err := s.workers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, workerrepo.ErrNotFound) {
			return nil, errorbank.Unauthorized("invalid email or password")
		}
		return nil, errorbank.Internal("failed to sign in", errorbank.WithCause(err))
	}
	if worker.PasswordHash == "" {
		return nil, errorbank.Unauthorized("account has no password; ask an administrator to reset it")
	}
	if err := s.auth.ComparePassword(worker.PasswordHash, password); err != nil {
		return nil, errorbank.Unauthorized("invalid email or password")
	}

	token, err := s.auth.WorkerToken(worker.ID, worker.Email, worker.Role)
	if err != nil {
		return nil, errorbank.Internal("failed to issue token", errorbank.WithCause(err))
	}
	return &WorkerSession{Token: token, Worker: worker}, nil
}

// Me resolves a token to its subject. Customer tokens also load the account.
func (s *Service) Me(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, errorbank.Unauthorized("missing token")
	}
	claims, err := s.auth.Verify(token)
	if err != nil {
		return nil, errorbank.Unauthorized("invalid or expired token", errorbank.WithCause(err))
	}
	id, err := claims.SubjectID()
	if err != nil {
		return nil, errorbank.Unauthorized("invalid or expired token", errorbank.WithCause(err))
	}

	identity := &Identity{ID: id, Email: claims.Email, Role: claims.Role}
	if claims.Role != auth.RoleCustomer {
		return identity, nil
	}

	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, customerrepo.ErrNotFound) {
			return nil, errorbank.Unauthorized("account no longer exists")
		}
		return nil, errorbank.Internal("failed to load account", errorbank.WithCause(err))
	}
	identity.Customer = customer
	return identity, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
