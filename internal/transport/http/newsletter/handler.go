package newsletter

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/geosstore/internal/dto"
	"github.com/Additional-Code/geosstore/internal/presentation/http/request"
	"github.com/Additional-Code/geosstore/internal/presentation/http/response"
	service "github.com/Additional-Code/geosstore/internal/service/newsletter"
)

// Handler exposes newsletter endpoints.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a newsletter Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/newsletter")
	g.POST("", h.subscribe)
	g.GET("", h.list)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) subscribe(c echo.Context) error {
	b := response.New(c)
	var in dto.SubscribeRequest
	if err := request.Bind(c, &in); err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.Subscribe(c.Request().Context(), in.Email); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(map[string]string{"email": in.Email}).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)
	subs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewSubscriberResponses(subs)).Build()
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
