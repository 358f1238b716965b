package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/treadline/backend/internal/domain/inventory"
	"github.com/treadline/backend/internal/domain/shared"
)

type recordingHandler struct {
	mu       sync.Mutex
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.received = append(h.received, evt)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func newLowStockEvent(t *testing.T) shared.DomainEvent {
	item, err := inventory.NewStockItem(uuid.New(), "FG-MAIN")
	require.NoError(t, err)
	require.NoError(t, item.SetLevels(20, 0))
	require.NoError(t, item.Receive(50))
	require.NoError(t, item.Reserve(40))

	events := item.GetDomainEvents()
	for _, evt := range events {
		if evt.EventType() == inventory.EventTypeStockBelowMinimum {
			return evt
		}
	}
	t.Fatal("expected a below-minimum event")
	return nil
}

func TestInMemoryEventBus_PublishToSubscriber(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{inventory.EventTypeStockBelowMinimum}}
	bus.Subscribe(handler)

	evt := newLowStockEvent(t)
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Equal(t, 1, handler.count())
	assert.Equal(t, evt.EventID(), handler.received[0].EventID())
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	wildcard := &recordingHandler{}
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newLowStockEvent(t)))

	assert.Equal(t, 1, wildcard.count())
}

func TestInMemoryEventBus_UnsubscribedHandlerGetsNothing(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{inventory.EventTypeStockBelowMinimum}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newLowStockEvent(t)))

	assert.Zero(t, handler.count())
}

func TestInMemoryEventBus_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{inventory.EventTypeStockBelowMinimum}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{inventory.EventTypeStockBelowMinimum}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newLowStockEvent(t)))

	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_PanickingHandlerIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{inventory.EventTypeStockBelowMinimum}, panics: true}
	healthy := &recordingHandler{types: []string{inventory.EventTypeStockBelowMinimum}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newLowStockEvent(t)))

	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_OnlyMatchingTypeDelivered(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{inventory.EventTypeStockReceived}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newLowStockEvent(t)))

	assert.Zero(t, handler.count())
}
