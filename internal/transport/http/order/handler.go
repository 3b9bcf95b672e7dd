package order

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/geosstore/internal/dto"
	"github.com/Additional-Code/geosstore/internal/presentation/http/request"
	"github.com/Additional-Code/geosstore/internal/presentation/http/response"
	service "github.com/Additional-Code/geosstore/internal/service/order"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/geosstore/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/orders")
	g.POST("", h.place)
	g.GET("", h.list)
	g.GET("/search/:query", h.search)
	g.GET("/:id", h.getByID)
	g.PATCH("/:id/status", h.updateStatus)
}

func (h *Handler) place(c echo.Context) error {
	b := response.New(c)

	var in service.PlaceInput
	if err := request.Bind(c, &in); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.place", trace.WithAttributes(
		attribute.Int("order.items", len(in.Items)),
	))
	defer span.End()

	order, code, err := h.svc.Place(ctx, in)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.PlaceOrderResponse{
		OrderCode: code,
		Order:     dto.NewOrderResponse(order),
	}).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	q := service.ListQuery{
		Status: c.QueryParam("status"),
		Page:   request.QueryInt(c, "page", 1),
		Limit:  request.QueryInt(c, "limit", 0),
	}
	orders, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponses(orders)).WithMeta("count", len(orders)).Build()
}

func (h *Handler) search(c echo.Context) error {
	b := response.New(c)

	orders, err := h.svc.Search(c.Request().Context(), c.Param("query"))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponses(orders)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.StatusUpdateRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	order, err := h.svc.UpdateStatus(c.Request().Context(), id, payload.Status)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewOrderResponse(order)).Build()
}
