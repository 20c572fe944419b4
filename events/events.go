// Package events carries notifications about graph mutations, workflow
// lifecycle, and execution state between the engine's services.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

var (
	// ErrBusClosed indicates the event bus has been stopped.
	ErrBusClosed = errors.New("event bus is closed")
	// ErrChannelFull indicates the event channel cannot accept more events.
	ErrChannelFull = errors.New("event channel is full")
	// ErrNoHandler indicates no handlers are registered for the event type.
	ErrNoHandler = errors.New("no handlers registered for event type")
)

// Event types published by the flow store and the execution runner.
const (
	EventNodeAdded         = "node_added"
	EventNodeUpdated       = "node_updated"
	EventNodeRemoved       = "node_removed"
	EventEdgeAdded         = "edge_added"
	EventEdgeRemoved       = "edge_removed"
	EventWorkflowSaved     = "workflow_saved"
	EventWorkflowLoaded    = "workflow_loaded"
	EventWorkflowDeleted   = "workflow_deleted"
	EventExecutionStarted  = "execution_started"
	EventExecutionFinished = "execution_finished"
)

// Event is a single notification. WorkflowID is empty for canvas-only
// mutations that are not yet attached to a saved workflow.
type Event struct {
	Type       string
	WorkflowID string
	Data       map[string]interface{}
}

// Handler processes a single event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus fans events out to subscribed handlers. Publish is asynchronous;
// PublishSync waits for all handlers.
type Bus struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
	eventCh  chan Event
	logger   hclog.Logger
	wg       sync.WaitGroup
	closed   bool
	closeMu  sync.RWMutex
}

// Option configures a Bus.
type Option func(*Bus)

// WithBufferSize sets the event channel buffer size.
func WithBufferSize(size int) Option {
	return func(b *Bus) {
		b.eventCh = make(chan Event, size)
	}
}

// WithLogger sets the logger for handler failures.
func WithLogger(logger hclog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// NewBus creates a Bus and starts its processing goroutine. The default
// buffer size is 100 and handler failures are logged, not propagated.
func NewBus(options ...Option) *Bus {
	b := &Bus{
		handlers: make(map[string][]Handler),
		eventCh:  make(chan Event, 100),
		logger:   hclog.NewNullLogger(),
	}
	for _, option := range options {
		option(b)
	}

	b.wg.Add(1)
	go b.processEvents()
	return b
}

// Subscribe registers a handler for an event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeFunc registers a function as a handler for an event type.
func (b *Bus) SubscribeFunc(eventType string, fn func(ctx context.Context, event Event) error) {
	b.Subscribe(eventType, HandlerFunc(fn))
}

// Unsubscribe removes a previously registered handler. Returns false when
// the handler was not subscribed.
func (b *Bus) Unsubscribe(eventType string, handler Handler) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers, exists := b.handlers[eventType]
	if !exists {
		return false
	}
	for i, h := range handlers {
		if fmt.Sprintf("%p", h) == fmt.Sprintf("%p", handler) {
			handlers[i] = handlers[len(handlers)-1]
			b.handlers[eventType] = handlers[:len(handlers)-1]
			if len(b.handlers[eventType]) == 0 {
				delete(b.handlers, eventType)
			}
			return true
		}
	}
	return false
}

// HasSubscribers reports whether any handler listens for eventType.
func (b *Bus) HasSubscribers(eventType string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

// Publish queues an event for asynchronous delivery.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	b.closeMu.RLock()
	if b.closed {
		b.closeMu.RUnlock()
		return ErrBusClosed
	}
	b.closeMu.RUnlock()

	if !b.HasSubscribers(event.Type) {
		return ErrNoHandler
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case b.eventCh <- event:
		return nil
	default:
		return ErrChannelFull
	}
}

// PublishSync delivers an event to all handlers and returns their errors.
// A 5-second timeout bounds handler execution.
func (b *Bus) PublishSync(ctx context.Context, event Event) []error {
	b.closeMu.RLock()
	if b.closed {
		b.closeMu.RUnlock()
		return []error{ErrBusClosed}
	}
	b.closeMu.RUnlock()

	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return []error{ErrNoHandler}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return b.runHandlers(timeoutCtx, handlers, event)
}

// Stop drains pending events and shuts down the processing goroutine.
func (b *Bus) Stop() {
	b.closeMu.Lock()
	if !b.closed {
		b.closed = true
		for len(b.eventCh) > 0 {
			<-b.eventCh
		}
		close(b.eventCh)
	}
	b.closeMu.Unlock()

	b.wg.Wait()
}

func (b *Bus) processEvents() {
	defer b.wg.Done()

	for event := range b.eventCh {
		b.mu.RLock()
		handlers := b.handlers[event.Type]
		b.mu.RUnlock()

		if len(handlers) == 0 {
			continue
		}
		for _, err := range b.runHandlers(context.Background(), handlers, event) {
			b.logger.Error("event handler failed",
				"type", event.Type, "workflow", event.WorkflowID, "error", err)
		}
	}
}

// runHandlers executes handlers concurrently and collects their errors.
func (b *Bus) runHandlers(ctx context.Context, handlers []Handler, event Event) []error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(handlers))

	for _, handler := range handlers {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			if err := h.Handle(ctx, event); err != nil {
				errCh <- err
			}
		}(handler)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}
