package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/geosstore/internal/dto"
	"github.com/Additional-Code/geosstore/internal/presentation/http/request"
	"github.com/Additional-Code/geosstore/internal/presentation/http/response"
	service "github.com/Additional-Code/geosstore/internal/service/account"
)

// Handler exposes sign-up and sign-in endpoints.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an account Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/worker/login", h.workerLogin)
	g.GET("/me", h.me)
}

func (h *Handler) register(c echo.Context) error {
	b := response.New(c)

	var in service.RegisterInput
	if err := request.Bind(c, &in); err != nil {
		return b.WithError(err).Build()
	}
	session, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(dto.SessionResponse{
		Token:    session.Token,
		Customer: dto.NewCustomerResponse(session.Customer),
	}).Build()
}

func (h *Handler) login(c echo.Context) error {
	b := response.New(c)

	var in dto.LoginRequest
	if err := request.Bind(c, &in); err != nil {
		return b.WithError(err).Build()
	}
	session, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.SessionResponse{
		Token:    session.Token,
		Customer: dto.NewCustomerResponse(session.Customer),
	}).Build()
}

func (h *Handler) workerLogin(c echo.Context) error {
	b := response.New(c)

	var in dto.LoginRequest
	if err := request.Bind(c, &in); err != nil {
		return b.WithError(err).Build()
	}
	session, err := h.svc.WorkerLogin(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.SessionResponse{
		Token:  session.Token,
		Worker: dto.NewWorkerResponse(session.Worker),
	}).Build()
}

func (h *Handler) me(c echo.Context) error {
	b := response.New(c)

	identity, err := h.svc.Me(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.IdentityResponse{
		ID:       identity.ID,
		Email:    identity.Email,
		Role:     identity.Role,
		Customer: dto.NewCustomerResponse(identity.Customer),
	}).Build()
}
