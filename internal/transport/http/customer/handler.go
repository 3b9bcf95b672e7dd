package customer

import (
	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/geosstore/internal/dto"
	"github.com/Additional-Code/geosstore/internal/presentation/http/request"
	"github.com/Additional-Code/geosstore/internal/presentation/http/response"
	service "github.com/Additional-Code/geosstore/internal/service/customer"
)

// Handler exposes the customer directory.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a customer Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/customers")
	g.GET("", h.list)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)
	rows, err := h.svc.List(c.Request().Context())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewCustomerSummaries(rows)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)
	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]int64{"id": id}).Build()
}
