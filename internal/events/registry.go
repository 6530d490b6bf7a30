package events

import (
	"context"
	"log/slog"
	"sync"
)

// Handler is a unit of logic that conditionally reacts to events.
type Handler interface {
	// Supports reports whether this handler wants the event. It must be
	// side-effect free.
	Supports(event Event) bool

	// Handle reacts to the event. Failures are logged and absorbed by the
	// registry; they never reach the publisher.
	Handle(ctx context.Context, event Event) error
}

// Registry holds the registered handlers and fans events out to them. It is
// constructed once at startup by the composition root and passed to the
// publishers; registration is expected to finish before the first dispatch.
type Registry struct {
	mu       sync.RWMutex
	handlers []Handler
	seen     map[Handler]struct{}
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		seen:   make(map[Handler]struct{}),
		logger: logger,
	}
}

// Register adds a handler. Registering the same instance twice is a no-op,
// and handlers run in registration order.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[h]; ok {
		return
	}
	r.seen[h] = struct{}{}
	r.handlers = append(r.handlers, h)
}

// Dispatch delivers the event to every registered handler whose Supports
// returns true, one at a time. A failing or panicking handler is logged and
// does not stop the remaining handlers; Dispatch itself never reports
// handler failures back to the caller.
func (r *Registry) Dispatch(ctx context.Context, event Event) {
	if event.Type == "" {
		r.logger.Warn("dropping event with empty type")
		return
	}

	r.mu.RLock()
	handlers := make([]Handler, len(r.handlers))
	copy(handlers, r.handlers)
	r.mu.RUnlock()

	for _, h := range handlers {
		if !h.Supports(event) {
			continue
		}
		r.invoke(ctx, h, event)
	}
}

// HandlerCount returns how many handlers are registered.
func (r *Registry) HandlerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

func (r *Registry) invoke(ctx context.Context, h Handler, event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panicked",
				"event_type", event.Type,
				"panic", rec,
			)
		}
	}()

	if err := h.Handle(ctx, event); err != nil {
		r.logger.Warn("handler failed",
			"event_type", event.Type,
			"error", err,
		)
	}
}
