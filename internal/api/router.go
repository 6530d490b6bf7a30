package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/openpioneer/marketplace-notify/internal/events"
	"github.com/openpioneer/marketplace-notify/internal/listing"
	"github.com/openpioneer/marketplace-notify/internal/store"
	ws "github.com/openpioneer/marketplace-notify/internal/websocket"
)

// RouterDeps collects the collaborators wired by the composition root.
type RouterDeps struct {
	Store           *store.PostgresStore
	Limiter         *store.RateLimiter
	NotifyRateLimit int
	Calc            *listing.ExpiryCalculator
	Immediate       events.Publisher
	Deferred        *events.DeferredPublisher
	Hub             *ws.Hub
	Logger          *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	notifHandler := NewNotificationHandler(deps.Store, deps.Limiter, deps.NotifyRateLimit)
	itemHandler := NewItemHandler(deps.Store, deps.Calc, deps.Logger)
	orderHandler := NewOrderHandler(deps.Store, deps.Deferred, deps.Logger)
	reviewHandler := NewReviewHandler(deps.Immediate, deps.Logger)
	eventHandler := NewEventHandler(deps.Immediate, deps.Deferred)
	statsHandler := NewStatsHandler(deps.Store, deps.Deferred, deps.Hub)

	// Live notification feed
	r.Get("/ws", deps.Hub.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", HealthHandler())

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notifHandler.List)
			r.Post("/", notifHandler.Create)
			r.Patch("/{id}", notifHandler.ToggleCleared)
		})

		r.Route("/items", func(r chi.Router) {
			r.Post("/", itemHandler.Create)
			r.Get("/{id}", itemHandler.Get)
			r.Put("/{id}", itemHandler.Update)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.Create)
			r.Get("/{id}", orderHandler.Get)
			r.Post("/{id}/cancel", orderHandler.Cancel)
		})

		r.Post("/reviews/{id}/trust-protect", reviewHandler.ApplyTrustProtect)

		r.Post("/events", eventHandler.Publish)

		r.Get("/dispatches", statsHandler.Dispatches)
		r.Get("/metrics", statsHandler.Metrics)
	})

	return r
}
