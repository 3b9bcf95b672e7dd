package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/messaging"
)

// HandlerRegistration binds a message topic to a handler. Several handlers
// may share a topic; they run in registration order.
type HandlerRegistration struct {
	Topic   string
	Handler messaging.Handler
}

// Params collects dependencies via Fx.
type Params struct {
	fx.In

	Client        messaging.Client
	Logger        *zap.Logger
	Config        config.Config
	Registrations []HandlerRegistration `group:"worker.handlers"`
}

// maxRestartDelay caps the wait between consumer restarts.
const maxRestartDelay = 30 * time.Second

// Engine runs the order event consumers: a fixed number of goroutines, each
// pulling from the bus and dispatching by topic.
type Engine struct {
	client        messaging.Client
	logger        *zap.Logger
	cfg           config.Config
	registrations map[string][]messaging.Handler
	cancel        context.CancelFunc
	running       sync.WaitGroup
}

// NewEngine constructs the worker Engine.
func NewEngine(p Params) *Engine {
	reg := make(map[string][]messaging.Handler, len(p.Registrations))
	for _, r := range p.Registrations {
		if r.Topic == "" || r.Handler == nil {
			continue
		}
		reg[r.Topic] = append(reg[r.Topic], r.Handler)
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		client:        p.Client,
		logger:        logger.Named("worker"),
		cfg:           p.Config,
		registrations: reg,
	}
}

// Module wires the engine into Fx lifecycle.
var Module = fx.Options(
	fx.Provide(NewEngine),
	fx.Invoke(func(lc fx.Lifecycle, engine *Engine) {
		lc.Append(fx.Hook{
			OnStart: engine.start,
			OnStop:  engine.stop,
		})
	}),
)

func (e *Engine) start(context.Context) error {
	workers := e.cfg.Messaging.Workers
	switch {
	case !e.cfg.Messaging.Enabled || !workers.Enabled:
		e.logger.Info("order event consumers disabled")
		return nil
	case len(e.registrations) == 0:
		e.logger.Info("no event handlers registered; consumers not started")
		return nil
	}

	consumers := max(workers.Concurrency, 1)
	runCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	for id := range consumers {
		e.running.Add(1)
		go func() {
			defer e.running.Done()
			e.consume(runCtx, e.logger.With(zap.Int("consumer", id)))
		}()
	}

	topics := make([]string, 0, len(e.registrations))
	for topic := range e.registrations {
		topics = append(topics, topic)
	}
	e.logger.Info("order event consumers started",
		zap.Int("consumers", consumers),
		zap.Strings("topics", topics),
	)
	return nil
}

func (e *Engine) stop(ctx context.Context) error {
	if e.cancel == nil {
		return nil
	}
	e.cancel()

	drained := make(chan struct{})
	go func() {
		e.running.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		e.logger.Info("order event consumers stopped")
		return nil
	case <-ctx.Done():
		e.logger.Warn("order event consumers still busy at shutdown")
		return ctx.Err()
	}
}

// Dispatch runs every handler registered for the message topic in order.
// The first failure is returned so the bus can redeliver; a panicking
// handler is turned into an error.
func (e *Engine) Dispatch(ctx context.Context, msg messaging.Message) (err error) {
	handlers, ok := e.registrations[msg.Topic]
	if !ok {
		e.logger.Warn("no handler for topic", zap.String("topic", msg.Topic))
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic on %s: %v", msg.Topic, r)
			e.logger.Error("event handler panicked",
				zap.String("topic", msg.Topic),
				zap.String("event_type", msg.Header("event-type")),
				zap.Any("panic", r),
			)
		}
	}()

	for _, handler := range handlers {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// consume keeps one consumer attached to the bus. When the bus connection
// fails it reattaches after a delay that starts at the poll interval and
// doubles up to maxRestartDelay.
func (e *Engine) consume(ctx context.Context, logger *zap.Logger) {
	delay := e.cfg.Messaging.Workers.PollInterval
	if delay <= 0 {
		delay = time.Second
	}

	for ctx.Err() == nil {
		err := e.client.Consume(ctx, func(msgCtx context.Context, msg messaging.Message) error {
			logger.Debug("order event received",
				zap.String("topic", msg.Topic),
				zap.String("event_type", msg.Header("event-type")),
				zap.ByteString("order_number", msg.Key),
			)
			return e.Dispatch(msgCtx, msg)
		})
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}

		logger.Error("consumer detached from bus", zap.Error(err), zap.Duration("retry_in", delay))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
		delay = min(delay*2, maxRestartDelay)
	}
}
