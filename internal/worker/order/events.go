package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/entity"
	"github.com/Additional-Code/geosstore/internal/messaging"
	ordersvc "github.com/Additional-Code/geosstore/internal/service/order"
	"github.com/Additional-Code/geosstore/internal/worker"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/geosstore/worker/order")

// Module registers order event handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewEventLogHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
		fx.Annotate(
			NewCacheWarmHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// OrderReader loads an order through the read-through cache.
type OrderReader interface {
	Get(ctx context.Context, id int64) (*entity.Order, error)
}

func decode(ctx context.Context, msg messaging.Message, logger *zap.Logger) (ordersvc.Event, trace.Span, context.Context, error) {
	ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
		attribute.String("messaging.topic", msg.Topic),
		attribute.String("messaging.event_type", msg.Header("event-type")),
	))

	var event ordersvc.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Error("failed to decode order event", zap.Error(err), zap.Int64("offset", msg.Offset))

		span.RecordError(err)
		span.SetStatus(codes.Error, "decode error")
		return event, span, ctx, messaging.Permanent(err)
	}
	span.SetAttributes(
		attribute.String("order.event", event.Type),
		attribute.String("order.number", event.Number),
	)
	return event, span, ctx, nil
}

// NewEventLogHandler records every order event in the structured log.
func NewEventLogHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		event, span, _, err := decode(ctx, msg, logger)
		defer span.End()
		if err != nil {
			return err
		}

		logger.Info("order event processed",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type),
			zap.Int64("order_id", event.OrderID),
			zap.String("order_number", event.Number),
			zap.String("status", event.Status),
			zap.String("previous_status", event.PrevStatus),
			zap.Int64("total", event.Total),
		)
		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}

// NewCacheWarmHandler reloads the order into the cache after it changes so
// the back office reads a fresh copy without touching the database.
func NewCacheWarmHandler(orders *ordersvc.Service, logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: cacheWarmer(orders, logger),
	}
}

func cacheWarmer(orders OrderReader, logger *zap.Logger) messaging.Handler {
	return func(ctx context.Context, msg messaging.Message) error {
		event, span, ctx, err := decode(ctx, msg, logger)
		defer span.End()
		if err != nil {
			return err
		}
		if event.OrderID == 0 {
			return nil
		}

		if _, err := orders.Get(ctx, event.OrderID); err != nil {
			if errorbank.Is(err, errorbank.KindNotFound) {
				return nil
			}
			logger.Warn("warm order cache failed", zap.Int64("order_id", event.OrderID), zap.Error(err))
			span.RecordError(err)
			return err
		}
		return nil
	}
}
