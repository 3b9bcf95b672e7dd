package order

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/cache"
	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/entity"
	"github.com/Additional-Code/geosstore/internal/messaging"
	repo "github.com/Additional-Code/geosstore/internal/repository/order"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

const instrumentation = "github.com/Additional-Code/geosstore/service/order"

var serviceTracer = otel.Tracer(instrumentation)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	searchLimit      = 20
	recentLimit      = 10
)

var transitions = map[string][]string{
	entity.OrderStatusPending:   {entity.OrderStatusConfirmed, entity.OrderStatusCancelled},
	entity.OrderStatusConfirmed: {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped:   {entity.OrderStatusDelivered},
	entity.OrderStatusDelivered: nil,
	entity.OrderStatusCancelled: nil,
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether status is a known order status.
func ValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// Store is the persistence the service needs.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx repo.Tx) error) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context, filter repo.ListFilter) ([]*entity.Order, error)
	Search(ctx context.Context, query string, limit int) ([]*entity.Order, error)
	Recent(ctx context.Context, limit int) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to string) error
}

// Options tunes placement.
type Options struct {
	CodeAttempts int
	StockPolicy  string
	CacheTTL     time.Duration
	Codes        CodeGenerator
}

// Service places orders and manages their lifecycle.
type Service struct {
	store     Store
	cache     cache.Store
	publisher messaging.Client
	logger    *zap.Logger
	opts      Options

	placed     metric.Int64Counter
	failed     metric.Int64Counter
	collisions metric.Int64Counter
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a Service from the Fx graph.
func NewService(p Params) *Service {
	return New(p.Repository, p.Cache, p.Publisher, p.Logger, Options{
		CodeAttempts: p.Config.Orders.CodeAttempts,
		StockPolicy:  p.Config.Orders.StockPolicy,
		CacheTTL:     p.Config.Cache.DefaultTTL,
	})
}

// New builds a Service. Cache and publisher may be nil.
func New(store Store, c cache.Store, publisher messaging.Client, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CodeAttempts <= 0 {
		opts.CodeAttempts = 1
	}
	if opts.StockPolicy == "" {
		opts.StockPolicy = config.StockPolicyLenient
	}
	if opts.Codes == nil {
		opts.Codes = NewCode
	}

	s := &Service{
		store:     store,
		cache:     c,
		publisher: publisher,
		logger:    logger,
		opts:      opts,
	}

	meter := otel.Meter(instrumentation)
	var err error
	if s.placed, err = meter.Int64Counter("orders.placed", metric.WithDescription("Orders committed")); err != nil {
		logger.Warn("create orders.placed counter", zap.Error(err))
	}
	if s.failed, err = meter.Int64Counter("orders.failed", metric.WithDescription("Order placements that rolled back")); err != nil {
		logger.Warn("create orders.failed counter", zap.Error(err))
	}
	if s.collisions, err = meter.Int64Counter("orders.code_collisions", metric.WithDescription("Generated order codes already in use")); err != nil {
		logger.Warn("create orders.code_collisions counter", zap.Error(err))
	}
	return s
}

// Place validates the request and persists the order, its lines and the
// stock adjustments in one transaction. It returns the stored order and its code.
func (s *Service) Place(ctx context.Context, in PlaceInput) (*entity.Order, string, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Place", trace.WithAttributes(
		attribute.Int("order.items", len(in.Items)),
	))
	defer span.End()

	in.normalize()
	if err := in.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		s.count(ctx, s.failed, "validation")
		return nil, "", err
	}

	for attempt := 1; attempt <= s.opts.CodeAttempts; attempt++ {
		code, err := s.opts.Codes()
		if err != nil {
			span.RecordError(err)
			s.count(ctx, s.failed, "code")
			return nil, "", errorbank.Internal("could not place order", errorbank.WithCause(err))
		}

		order, err := s.placeOnce(ctx, code, &in)
		if err == nil {
			span.SetAttributes(attribute.String("order.number", code), attribute.Int64("order.id", order.ID))
			if s.placed != nil {
				s.placed.Add(ctx, 1, metric.WithAttributes(attribute.String("stock_policy", s.opts.StockPolicy)))
			}
			s.afterPlace(ctx, order)
			return order, code, nil
		}
		if errors.Is(err, repo.ErrDuplicateNumber) {
			s.logger.Warn("order code collision", zap.String("order_number", code), zap.Int("attempt", attempt))
			s.count(ctx, s.collisions, "")
			continue
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "placement failed")
		return nil, "", s.placementError(ctx, err)
	}

	span.SetStatus(codes.Error, "order codes exhausted")
	s.count(ctx, s.failed, "conflict")
	return nil, "", errorbank.Conflict("could not allocate a unique order code", errorbank.WithDetail("attempts", s.opts.CodeAttempts))
}

func (s *Service) placeOnce(ctx context.Context, code string, in *PlaceInput) (*entity.Order, error) {
	var placed *entity.Order
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		order := in.order(code)
		order.CreatedAt = time.Now().UTC()
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}

		order.Items = make([]*entity.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			item := &entity.OrderItem{
				OrderID:      order.ID,
				ProductID:    it.ProductID,
				ProductName:  it.Name,
				ProductImage: it.Image,
				Size:         it.Size,
				Quantity:     it.Quantity,
				Price:        it.UnitPrice,
			}
			if err := tx.InsertItem(ctx, item); err != nil {
				return err
			}
			order.Items = append(order.Items, item)

			if it.ProductID == nil {
				continue
			}
			if err := s.adjustStock(ctx, tx, *it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func (s *Service) adjustStock(ctx context.Context, tx repo.Tx, productID int64, qty int) error {
	if s.opts.StockPolicy == config.StockPolicyStrict {
		return tx.ReserveStock(ctx, productID, qty)
	}
	return tx.DecrementStock(ctx, productID, qty)
}

func (s *Service) placementError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		s.count(ctx, s.failed, "product")
		return errorbank.Unprocessable("order references an unknown product", errorbank.WithCause(err))
	case errors.Is(err, repo.ErrInsufficientStock):
		s.count(ctx, s.failed, "stock")
		return errorbank.Unprocessable("insufficient stock for order", errorbank.WithCause(err))
	default:
		s.count(ctx, s.failed, "storage")
		s.logger.Error("order placement rolled back", zap.Error(err))
		return errorbank.Internal("could not place order", errorbank.WithCause(err))
	}
}

func (s *Service) afterPlace(ctx context.Context, order *entity.Order) {
	seen := make(map[int64]struct{}, len(order.Items))
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		if _, ok := seen[*item.ProductID]; ok {
			continue
		}
		seen[*item.ProductID] = struct{}{}
		s.evict(ctx, cache.ProductKey(*item.ProductID))
	}

	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.Number),
		zap.Int64("total", order.Total),
		zap.Int("items", len(order.Items)),
	)
	s.publish(ctx, newEvent(EventPlaced, order, ""))
}

// Get retrieves an order with its lines, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	var cached entity.Order
	err := cache.GetJSON(ctx, s.cache, cache.OrderKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := cache.SetJSON(ctx, s.cache, cache.OrderKey(id), order, s.opts.CacheTTL); err != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", id), zap.Error(err))
	}
	return order, nil
}

// ListQuery selects one page of orders. Status "all" or empty disables the filter.
type ListQuery struct {
	Status string
	Page   int
	Limit  int
}

// List returns orders newest first.
func (s *Service) List(ctx context.Context, q ListQuery) ([]*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	status := q.Status
	if status == "all" {
		status = ""
	}
	if status != "" && !ValidStatus(status) {
		return nil, errorbank.BadRequest("unknown order status", errorbank.WithDetail("status", status))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	orders, err := s.store.List(ctx, repo.ListFilter{Status: status, Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		span.RecordError(err)
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Search matches code, customer names, email or phone.
func (s *Service) Search(ctx context.Context, query string) ([]*entity.Order, error) {
	if query == "" {
		return nil, errorbank.BadRequest("search query is required")
	}
	orders, err := s.store.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, errorbank.Internal("failed to search orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Recent returns the newest orders with their lines.
func (s *Service) Recent(ctx context.Context) ([]*entity.Order, error) {
	orders, err := s.store.Recent(ctx, recentLimit)
	if err != nil {
		return nil, errorbank.Internal("failed to load recent orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// UpdateStatus moves an order along the status graph.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", status),
	))
	defer span.End()

	if !ValidStatus(status) {
		return nil, errorbank.BadRequest("unknown order status", errorbank.WithDetail("status", status))
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}
	if current.Status == status {
		return current, nil
	}
	if !CanTransition(current.Status, status) {
		return nil, errorbank.Conflict("illegal status transition", errorbank.WithDetails(map[string]any{
			"from": current.Status,
			"to":   status,
		}))
	}

	if err := s.store.UpdateStatus(ctx, id, current.Status, status); err != nil {
		if errors.Is(err, repo.ErrStatusChanged) {
			return nil, errorbank.Conflict("order status changed concurrently")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, errorbank.Internal("failed to update order status", errorbank.WithCause(err))
	}

	prev := current.Status
	current.Status = status
	s.evict(ctx, cache.OrderKey(id))
	s.logger.Info("order status updated",
		zap.Int64("order_id", id),
		zap.String("from", prev),
		zap.String("to", status),
	)
	s.publish(ctx, newEvent(EventStatusChanged, current, prev))
	return current, nil
}

func (s *Service) evict(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("cache eviction failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) count(ctx context.Context, counter metric.Int64Counter, reason string) {
	if counter == nil {
		return
	}
	if reason == "" {
		counter.Add(ctx, 1)
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
