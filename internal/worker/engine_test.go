package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/messaging"
)

func newTestEngine(regs ...HandlerRegistration) *Engine {
	return NewEngine(Params{Logger: zap.NewNop(), Registrations: regs})
}

func TestDispatchRunsHandlersInOrder(t *testing.T) {
	var calls []string
	record := func(name string) messaging.Handler {
		return func(context.Context, messaging.Message) error {
			calls = append(calls, name)
			return nil
		}
	}
	e := newTestEngine(
		HandlerRegistration{Topic: "orders", Handler: record("log")},
		HandlerRegistration{Topic: "orders", Handler: record("cache")},
		HandlerRegistration{Topic: "other", Handler: record("other")},
	)

	require.NoError(t, e.Dispatch(context.Background(), messaging.Message{Topic: "orders"}))
	assert.Equal(t, []string{"log", "cache"}, calls)
}

func TestDispatchStopsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	e := newTestEngine(
		HandlerRegistration{Topic: "orders", Handler: func(context.Context, messaging.Message) error { return boom }},
		HandlerRegistration{Topic: "orders", Handler: func(context.Context, messaging.Message) error { ran = true; return nil }},
	)

	assert.ErrorIs(t, e.Dispatch(context.Background(), messaging.Message{Topic: "orders"}), boom)
	assert.False(t, ran)
}

func TestDispatchRecoversPanics(t *testing.T) {
	e := newTestEngine(HandlerRegistration{Topic: "orders", Handler: func(context.Context, messaging.Message) error {
		panic("bad payload")
	}})

	err := e.Dispatch(context.Background(), messaging.Message{Topic: "orders"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad payload")
}

func TestDispatchIgnoresUnknownTopics(t *testing.T) {
	e := newTestEngine(HandlerRegistration{Topic: "", Handler: func(context.Context, messaging.Message) error {
		return errors.New("unreachable")
	}})
	assert.NoError(t, e.Dispatch(context.Background(), messaging.Message{Topic: "orders"}))
}

func TestEngineConsumesFromMemoryBus(t *testing.T) {
	bus := messaging.NewMemoryBus("geosstore.orders", 8, messaging.RetryPolicy{Attempts: 1}, zap.NewNop())

	var seen atomic.Int32
	cfg := config.Config{Messaging: config.Messaging{
		Enabled: true,
		Workers: config.Worker{Enabled: true, Concurrency: 2, PollInterval: time.Millisecond},
	}}
	e := NewEngine(Params{
		Client: bus,
		Logger: zap.NewNop(),
		Config: cfg,
		Registrations: []HandlerRegistration{{
			Topic: "geosstore.orders",
			Handler: func(context.Context, messaging.Message) error {
				seen.Add(1)
				return nil
			},
		}},
	})

	require.NoError(t, e.start(context.Background()))
	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(context.Background(), nil, []byte("{}")))
	}
	assert.Eventually(t, func() bool { return seen.Load() == 5 }, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, e.stop(stopCtx))
}

func TestEngineDisabled(t *testing.T) {
	e := NewEngine(Params{Client: messaging.NewMemoryBus("t", 1, messaging.RetryPolicy{}, nil), Logger: zap.NewNop()})
	require.NoError(t, e.start(context.Background()))
	assert.Nil(t, e.cancel)
	require.NoError(t, e.stop(context.Background()))
}

type detachingBus struct {
	messaging.Client
	failures int32
	attaches atomic.Int32
}

func (b *detachingBus) Consume(ctx context.Context, _ messaging.Handler) error {
	if b.attaches.Add(1) <= b.failures {
		return errors.New("broker connection reset")
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestEngineReattachesAfterBusFailure(t *testing.T) {
	bus := &detachingBus{failures: 2}
	e := NewEngine(Params{
		Client: bus,
		Logger: zap.NewNop(),
		Config: config.Config{Messaging: config.Messaging{
			Enabled: true,
			Workers: config.Worker{Enabled: true, Concurrency: 1, PollInterval: time.Millisecond},
		}},
		Registrations: []HandlerRegistration{{
			Topic:   "geosstore.orders",
			Handler: func(context.Context, messaging.Message) error { return nil },
		}},
	})

	require.NoError(t, e.start(context.Background()))
	assert.Eventually(t, func() bool { return bus.attaches.Load() == 3 }, time.Second, 2*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, e.stop(stopCtx))
	assert.Equal(t, int32(3), bus.attaches.Load())
}
