package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/entity"
	"github.com/Additional-Code/geosstore/internal/messaging"
)

// publishTimeout bounds how long a committed request waits on the bus.
const publishTimeout = 3 * time.Second

// Event types published on the order topic.
const (
	EventPlaced        = "order.placed"
	EventStatusChanged = "order.status_changed"
)

// Event is the message published after an order is placed or changes status.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	Number     string    `json:"order_number"`
	Status     string    `json:"status"`
	PrevStatus string    `json:"previous_status,omitempty"`
	Total      int64     `json:"total"`
	Items      int       `json:"items"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newEvent(kind string, order *entity.Order, prev string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       kind,
		OrderID:    order.ID,
		Number:     order.Number,
		Status:     order.Status,
		PrevStatus: prev,
		Total:      order.Total,
		Items:      len(order.Items),
		OccurredAt: time.Now().UTC(),
	}
}

// publish is best effort: the order is already committed.
func (s *Service) publish(ctx context.Context, event Event) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, []byte(event.Number), payload, messaging.Header{Key: "event-type", Value: event.Type}); err != nil {
		s.logger.Error("publish order event",
			zap.String("type", event.Type),
			zap.String("order_number", event.Number),
			zap.Error(err),
		)
	}
}
