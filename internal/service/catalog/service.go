package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/cache"
	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/entity"
	repo "github.com/Additional-Code/geosstore/internal/repository/product"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/geosstore/service/catalog")

const (
	defaultPageSize = 20
	maxPageSize     = 100
	allCategories   = "todos"
)

var validate = validator.New()

// ListQuery describes a catalog page request.
type ListQuery struct {
	Status   string
	Category string
	Search   string
	Featured bool
	IsNew    bool
	Sort     string
	Page     int
	Limit    int
}

// Page is one page of catalog results.
type Page struct {
	Products []*entity.Product
	Total    int
	Page     int
	Pages    int
}

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Brand       string `json:"brand" validate:"required,max=100"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0,lte=2147483647"`
	OldPrice    *int64 `json:"old_price" validate:"omitempty,gte=0,lte=2147483647"`
	Category    string `json:"category" validate:"required,max=50"`
	Sizes       string `json:"sizes" validate:"max=255"`
	Stock       int    `json:"stock" validate:"gte=0,lte=2147483647"`
	Featured    bool   `json:"featured"`
	IsNew       bool   `json:"is_new"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
	ImageURL    string `json:"image_url" validate:"max=500"`
	Images      string `json:"images"`
	Color       string `json:"color" validate:"max=50"`
	Location    string `json:"location" validate:"max=100"`
}

// InventoryInput is the worker-editable part of a product.
type InventoryInput struct {
	Sizes    string `json:"sizes" validate:"max=255"`
	Stock    int    `json:"stock" validate:"gte=0,lte=2147483647"`
	Color    string `json:"color" validate:"max=50"`
	Location string `json:"location" validate:"max=100"`
}

// Service manages the product catalog.
type Service struct {
	repo     *repo.Repository
	cache    cache.Store
	cacheTTL time.Duration
	uploads  config.Uploads
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return New(p.Repository, p.Cache, p.Config.Cache.DefaultTTL, p.Config.Uploads, p.Logger)
}

// New builds a Service. The cache may be nil.
func New(r *repo.Repository, c cache.Store, ttl time.Duration, uploads config.Uploads, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: r, cache: c, cacheTTL: ttl, uploads: uploads, logger: logger}
}

// List returns one page of products.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	ctx, span := serviceTracer.Start(ctx, "CatalogService.List")
	defer span.End()

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	status := q.Status
	if status == "" {
		status = entity.ProductStatusActive
	}
	category := q.Category
	if category == allCategories {
		category = ""
	}

	products, total, err := s.repo.List(ctx, repo.Filter{
		Status:   status,
		Category: category,
		Search:   strings.TrimSpace(q.Search),
		Featured: q.Featured,
		IsNew:    q.IsNew,
		Sort:     q.Sort,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return Page{}, errorbank.Internal("failed to list products", errorbank.WithCause(err))
	}

	return Page{
		Products: products,
		Total:    total,
		Page:     page,
		Pages:    (total + limit - 1) / limit,
	}, nil
}

// Get reads a product through the cache.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "CatalogService.Get", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	var cached entity.Product
	err := cache.GetJSON(ctx, s.cache, cache.ProductKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("products cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "failed to load product")
	}
	if err := cache.SetJSON(ctx, s.cache, cache.ProductKey(id), product, s.cacheTTL); err != nil {
		s.logger.Warn("products cache write failed", zap.Int64("id", id), zap.Error(err))
	}
	return product, nil
}

// Create adds a product to the catalog.
func (s *Service) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "CatalogService.Create")
	defer span.End()

	if err := checkInput(in); err != nil {
		return nil, err
	}
	product := &entity.Product{}
	in.apply(product)
	if err := s.repo.Create(ctx, product); err != nil {
		span.RecordError(err)
		return nil, errorbank.Internal("failed to create product", errorbank.WithCause(err))
	}
	s.logger.Info("product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// Update replaces a product's editable fields.
func (s *Service) Update(ctx context.Context, id int64, in ProductInput) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "CatalogService.Update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := checkInput(in); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "failed to load product")
	}
	in.apply(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, s.mapError(err, "failed to update product")
	}
	s.evict(ctx, id)
	return product, nil
}

// UpdateInventory patches sizes, stock, color and location.
func (s *Service) UpdateInventory(ctx context.Context, id int64, in InventoryInput) error {
	if err := validate.Struct(in); err != nil {
		return errorbank.BadRequest("invalid inventory", errorbank.WithCause(err))
	}
	err := s.repo.UpdateInventory(ctx, id, repo.Inventory{
		Sizes:    strings.TrimSpace(in.Sizes),
		Stock:    in.Stock,
		Color:    strings.TrimSpace(in.Color),
		Location: strings.TrimSpace(in.Location),
	})
	if err != nil {
		return s.mapError(err, "failed to update inventory")
	}
	s.evict(ctx, id)
	return nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(err, "failed to delete product")
	}
	s.evict(ctx, id)
	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func checkInput(in ProductInput) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]any, len(verrs))
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
			return errorbank.BadRequest("invalid product", errorbank.WithDetails(details))
		}
		return errorbank.BadRequest("invalid product", errorbank.WithCause(err))
	}
	return nil
}

func (in ProductInput) apply(p *entity.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Brand = strings.TrimSpace(in.Brand)
	p.Description = in.Description
	p.Price = in.Price
	p.OldPrice = in.OldPrice
	p.Category = strings.TrimSpace(in.Category)
	p.Sizes = in.Sizes
	p.Stock = in.Stock
	p.Featured = in.Featured
	p.IsNew = in.IsNew
	p.Status = in.Status
	if p.Status == "" {
		p.Status = entity.ProductStatusActive
	}
	p.ImageURL = in.ImageURL
	p.Images = in.Images
	p.Color = in.Color
	p.Location = in.Location
}

func (s *Service) mapError(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("product not found")
	}
	s.logger.Error(msg, zap.Error(err))
	return errorbank.Internal(msg, errorbank.WithCause(err))
}

func (s *Service) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ProductKey(id)); err != nil {
		s.logger.Warn("products cache eviction failed", zap.Int64("id", id), zap.Error(err))
	}
}
