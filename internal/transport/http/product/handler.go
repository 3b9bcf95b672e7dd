package product

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/geosstore/internal/dto"
	"github.com/Additional-Code/geosstore/internal/presentation/http/request"
	"github.com/Additional-Code/geosstore/internal/presentation/http/response"
	service "github.com/Additional-Code/geosstore/internal/service/catalog"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/geosstore/transport/http/product")

// Handler exposes catalog endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a product Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/products")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.getByID)
	g.PUT("/:id", h.update)
	g.PATCH("/:id/worker", h.updateInventory)
	g.DELETE("/:id", h.delete)

	e.POST("/api/upload", h.upload)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	q := service.ListQuery{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Featured: request.QueryBool(c, "featured"),
		IsNew:    request.QueryBool(c, "new"),
		Sort:     c.QueryParam("sort"),
		Page:     request.QueryInt(c, "page", 1),
		Limit:    request.QueryInt(c, "limit", 0),
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.list", trace.WithAttributes(
		attribute.String("product.category", q.Category),
	))
	defer span.End()

	page, err := h.svc.List(ctx, q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewProductResponses(page.Products)).
		WithPage(page.Page, page.Pages, page.Total).
		Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	product, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewProductResponse(product)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var in service.ProductInput
	if err := request.Bind(c, &in); err != nil {
		return b.WithError(err).Build()
	}
	product, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(dto.NewProductResponse(product)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var in service.ProductInput
	if err := request.Bind(c, &in); err != nil {
		return b.WithError(err).Build()
	}
	product, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewProductResponse(product)).Build()
}

func (h *Handler) updateInventory(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var in service.InventoryInput
	if err := request.Bind(c, &in); err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.UpdateInventory(c.Request().Context(), id, in); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]int64{"id": id}).Build()
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

func (h *Handler) upload(c echo.Context) error {
	b := response.New(c)

	form, err := c.MultipartForm()
	if err != nil {
		return b.WithError(errorbank.BadRequest("expected multipart form", errorbank.WithCause(err))).Build()
	}
	headers := form.File["images"]

	files := make([]service.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return b.WithError(errorbank.BadRequest("could not open upload", errorbank.WithCause(err))).Build()
		}
		defer f.Close()
		files = append(files, service.File{Name: fh.Filename, Size: fh.Size, Reader: f})
	}

	urls, err := h.svc.Upload(c.Request().Context(), files)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(map[string][]string{"urls": urls}).Build()
}
