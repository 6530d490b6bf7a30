package events

import (
	"context"
	"fmt"
	"log/slog"
)

// Publisher delivers an event toward the handler registry. Publish returns
// once delivery is accepted, not once handlers have run; it never reports
// per-handler outcomes.
//
// Two implementations exist with different trade-offs: ImmediatePublisher
// dispatches in-process with low latency but loses events if the process
// crashes before dispatch completes, while DeferredPublisher queues a
// durable job executed at least once by the background worker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// ImmediatePublisher feeds events straight into the registry through an
// in-process channel drained by a single consumer goroutine.
type ImmediatePublisher struct {
	registry *Registry
	events   chan Event
	logger   *slog.Logger
	done     chan struct{}
}

func NewImmediatePublisher(registry *Registry, logger *slog.Logger) *ImmediatePublisher {
	return &ImmediatePublisher{
		registry: registry,
		events:   make(chan Event, 256),
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the consumer goroutine. It runs until Stop is called.
func (p *ImmediatePublisher) Start(ctx context.Context) {
	go func() {
		defer close(p.done)
		for event := range p.events {
			p.registry.Dispatch(ctx, event)
		}
	}()
}

// Publish queues the event for in-process dispatch. It blocks only while the
// internal buffer is full and the context is live.
func (p *ImmediatePublisher) Publish(ctx context.Context, event Event) error {
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}

	select {
	case p.events <- event:
		p.logger.Info("event published", "event_type", event.Type, "mode", "immediate")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the event channel and waits for in-flight dispatches to
// finish.
func (p *ImmediatePublisher) Stop() {
	close(p.events)
	<-p.done
}
