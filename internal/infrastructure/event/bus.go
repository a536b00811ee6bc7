package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/erp/sales/internal/domain/shared"
)

// InMemoryEventBus implements shared.EventBus with in-process pub/sub.
// Publish dispatches synchronously by default; with WithAsync the events
// are queued and dispatched by a worker pool instead.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler

	logger *zap.Logger

	queue   chan dispatch
	workers int
	wg      sync.WaitGroup
}

type dispatch struct {
	ctx   context.Context
	event shared.DomainEvent
}

// BusOption configures an InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithAsync makes Publish enqueue events for a worker pool instead of
// dispatching inline. Start must be called before publishing.
func WithAsync(bufferSize, workers int) BusOption {
	return func(b *InMemoryEventBus) {
		b.queue = make(chan dispatch, bufferSize)
		b.workers = workers
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	bus := &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(bus)
	}
	return bus
}

// Publish delivers events to all handlers registered for their type
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		if b.queue != nil {
			b.queue <- dispatch{ctx: ctx, event: evt}
			continue
		}
		b.deliver(ctx, evt)
	}
	return nil
}

// Subscribe registers a handler for specific event types. With no event
// types the handler's own EventTypes are used; an empty set subscribes it
// to every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
		return
	}
	for _, eventType := range eventTypes {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
}

// Unsubscribe removes a handler from all event types
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.wildcard = removeHandler(b.wildcard, handler)
	for eventType, handlers := range b.handlers {
		b.handlers[eventType] = removeHandler(handlers, handler)
		if len(b.handlers[eventType]) == 0 {
			delete(b.handlers, eventType)
		}
	}
}

// Start launches the worker pool for an async bus. It is a no-op for a
// synchronous bus.
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	if b.queue == nil {
		return nil
	}

	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for d := range b.queue {
				b.deliver(d.ctx, d.event)
			}
		}()
	}
	b.logger.Info("event bus started", zap.Int("workers", b.workers))
	return nil
}

// Stop closes the queue and waits for in-flight events to finish
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	if b.queue != nil {
		close(b.queue)
	}
	b.wg.Wait()
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) deliver(ctx context.Context, evt shared.DomainEvent) {
	b.mu.RLock()
	handlers := make([]shared.EventHandler, 0, len(b.handlers[evt.EventType()])+len(b.wildcard))
	handlers = append(handlers, b.handlers[evt.EventType()]...)
	handlers = append(handlers, b.wildcard...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := b.dispatchToHandler(ctx, handler, evt); err != nil {
			// A failing handler must not block the others
			b.logger.Error("handler failed to process event",
				zap.String("event_type", evt.EventType()),
				zap.String("event_id", evt.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", evt.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, evt)
}

func removeHandler(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	result := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			result = append(result, h)
		}
	}
	return result
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
