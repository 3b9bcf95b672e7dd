package order

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/entity"
	"github.com/Additional-Code/geosstore/internal/messaging"
	ordersvc "github.com/Additional-Code/geosstore/internal/service/order"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

type stubReader struct {
	ids []int64
	err error
}

func (s *stubReader) Get(_ context.Context, id int64) (*entity.Order, error) {
	s.ids = append(s.ids, id)
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Order{ID: id}, nil
}

func message(t *testing.T, event ordersvc.Event) messaging.Message {
	t.Helper()
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	return messaging.Message{Topic: "geosstore.orders", Value: raw}
}

func TestCacheWarmerLoadsOrder(t *testing.T) {
	reader := &stubReader{}
	handler := cacheWarmer(reader, zap.NewNop())

	err := handler(context.Background(), message(t, ordersvc.Event{Type: ordersvc.EventPlaced, OrderID: 12, Number: "GS-ABC123"}))
	require.NoError(t, err)
	assert.Equal(t, []int64{12}, reader.ids)
}

func TestCacheWarmerSkipsMissingOrders(t *testing.T) {
	reader := &stubReader{err: errorbank.NotFound("order not found")}
	handler := cacheWarmer(reader, zap.NewNop())

	assert.NoError(t, handler(context.Background(), message(t, ordersvc.Event{OrderID: 3})))
}

func TestCacheWarmerReportsStorageErrors(t *testing.T) {
	reader := &stubReader{err: errorbank.Internal("failed to load order")}
	handler := cacheWarmer(reader, zap.NewNop())

	assert.Error(t, handler(context.Background(), message(t, ordersvc.Event{OrderID: 3})))
}

func TestHandlersRejectMalformedPayloads(t *testing.T) {
	cfg := config.Config{Messaging: config.Messaging{Kafka: config.Kafka{Topic: "geosstore.orders"}}}
	reg := NewEventLogHandler(zap.NewNop(), cfg)
	assert.Equal(t, "geosstore.orders", reg.Topic)

	bad := messaging.Message{Topic: "geosstore.orders", Value: []byte("{not json")}
	err := reg.Handler(context.Background(), bad)
	assert.Error(t, err)
	assert.True(t, messaging.IsPermanent(err))
	assert.True(t, messaging.IsPermanent(cacheWarmer(&stubReader{}, zap.NewNop())(context.Background(), bad)))

	ok := message(t, ordersvc.Event{Type: ordersvc.EventStatusChanged, OrderID: 1, Status: entity.OrderStatusConfirmed})
	assert.NoError(t, reg.Handler(context.Background(), ok))
}
