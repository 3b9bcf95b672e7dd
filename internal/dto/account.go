package dto

import (
	"time"

	"github.com/Additional-Code/geosstore/internal/entity"
	customerrepo "github.com/Additional-Code/geosstore/internal/repository/customer"
)

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CustomerResponse is a customer account without secrets.
type CustomerResponse struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CustomerSummaryResponse is a customer with order aggregates.
type CustomerSummaryResponse struct {
	ID         int64      `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	CreatedAt  time.Time  `json:"created_at"`
	OrderCount int64      `json:"order_count"`
	TotalSpent int64      `json:"total_spent"`
	FirstOrder *time.Time `json:"first_order"`
}

// WorkerResponse is a staff account without secrets.
type WorkerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is returned on sign-up and sign-in.
type SessionResponse struct {
	Token    string            `json:"token"`
	Customer *CustomerResponse `json:"user,omitempty"`
	Worker   *WorkerResponse   `json:"worker,omitempty"`
}

// IdentityResponse describes the bearer of a token.
type IdentityResponse struct {
	ID       int64             `json:"id"`
	Email    string            `json:"email"`
	Role     string            `json:"role"`
	Customer *CustomerResponse `json:"user,omitempty"`
}

// NewCustomerResponse maps a customer entity.
func NewCustomerResponse(c *entity.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		LastLogin: c.LastLogin,
		CreatedAt: c.CreatedAt,
	}
}

// NewCustomerSummaries maps customer aggregate rows.
func NewCustomerSummaries(rows []customerrepo.Summary) []CustomerSummaryResponse {
	out := make([]CustomerSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CustomerSummaryResponse(r))
	}
	return out
}

// NewWorkerResponse maps a worker entity.
func NewWorkerResponse(w *entity.Worker) *WorkerResponse {
	if w == nil {
		return nil
	}
	return &WorkerResponse{
		ID:        w.ID,
		Name:      w.Name,
		Email:     w.Email,
		Role:      w.Role,
		Status:    w.Status,
		CreatedAt: w.CreatedAt,
	}
}

// NewWorkerResponses maps a slice of workers.
func NewWorkerResponses(workers []*entity.Worker) []*WorkerResponse {
	out := make([]*WorkerResponse, 0, len(workers))
	for _, w := range workers {
		out = append(out, NewWorkerResponse(w))
	}
	return out
}
