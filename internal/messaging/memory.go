package messaging

import (
	"context"
	"errors"
	"maps"
	"time"

	"go.uber.org/zap"
)

const memoryBusBuffer = 256

// ErrBusFull is returned when the in-memory bus has no room for a message.
var ErrBusFull = errors.New("memory bus buffer full")

// MemoryBus is an in-process Client for single-binary deployments and tests.
// Each published message is delivered to exactly one consumer.
type MemoryBus struct {
	topic  string
	ch     chan Message
	retry  RetryPolicy
	logger *zap.Logger
}

// NewMemoryBus returns a bus holding up to buffer undelivered messages.
func NewMemoryBus(topic string, buffer int, retry RetryPolicy, logger *zap.Logger) *MemoryBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer < 0 {
		buffer = 0
	}
	return &MemoryBus{topic: topic, ch: make(chan Message, buffer), retry: retry, logger: logger}
}

// Publish enqueues a message without waiting. When the buffer is full the
// message is dropped and ErrBusFull is returned.
func (b *MemoryBus) Publish(ctx context.Context, key []byte, value []byte, headers ...Header) error {
	msg := Message{
		Topic: b.topic,
		Key:   append([]byte(nil), key...),
		Value: append([]byte(nil), value...),
		Time:  time.Now().UTC(),
	}
	if len(headers) > 0 {
		msg.Headers = make(map[string]string, len(headers))
		for _, h := range headers {
			msg.Headers[h.Key] = h.Value
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case b.ch <- msg:
		return nil
	default:
		b.logger.Warn("memory bus full; dropping message",
			zap.String("topic", b.topic),
			zap.ByteString("key", msg.Key),
			zap.String("event_type", msg.Header("event-type")),
		)
		return ErrBusFull
	}
}

// Consume hands messages to handler until ctx is cancelled.
func (b *MemoryBus) Consume(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-b.ch:
			msg.Headers = maps.Clone(msg.Headers)
			if err := b.retry.deliver(ctx, handler, msg, b.logger); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				b.logger.Error("dropping message after retries", zap.String("topic", msg.Topic), zap.Error(err))
			}
		}
	}
}

// Topic returns the bus topic.
func (b *MemoryBus) Topic() string { return b.topic }
