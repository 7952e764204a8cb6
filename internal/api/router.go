package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/driftlab/driftwatch/internal/pipeline"
	"github.com/driftlab/driftwatch/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, receives an event per persisted analysis and is
// mounted at GET /events inside the auth group.
func NewRouter(pipe *pipeline.Pipeline, authEnabled bool, token string, broker *sse.Broker) chi.Router {
	h := NewHandler(pipe, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Analysis pipeline.
	r.Post("/startups/{startupID}/analyze", h.Analyze)

	// Snapshot history.
	r.Get("/startups", h.ListStartups)
	r.Get("/startups/{startupID}/snapshots", h.History)
	r.Get("/startups/{startupID}/snapshots/latest", h.LatestSnapshot)

	// SSE endpoint (protected by same auth middleware).
	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}

	return r
}
