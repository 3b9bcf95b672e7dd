package dashboard

import (
	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/geosstore/internal/dto"
	"github.com/Additional-Code/geosstore/internal/presentation/http/response"
	service "github.com/Additional-Code/geosstore/internal/service/dashboard"
)

// Handler exposes back-office dashboard endpoints.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a dashboard Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/dashboard")
	g.GET("", h.overview)
	g.GET("/stats", h.stats)
	g.GET("/recent-orders", h.recentOrders)
}

func (h *Handler) overview(c echo.Context) error {
	b := response.New(c)
	overview, err := h.svc.Overview(c.Request().Context())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]any{
		"stats":         dto.NewStatsResponse(overview.Stats),
		"recent_orders": dto.NewOrderResponses(overview.Recent),
	}).Build()
}

func (h *Handler) stats(c echo.Context) error {
	b := response.New(c)
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewStatsResponse(stats)).Build()
}

func (h *Handler) recentOrders(c echo.Context) error {
	b := response.New(c)
	orders, err := h.svc.RecentOrders(c.Request().Context())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponses(orders)).Build()
}
