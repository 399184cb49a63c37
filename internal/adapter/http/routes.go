package http

import "github.com/go-chi/chi/v5"

// MountRoutes registers all HTTP routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/.well-known/agent.json", h.AgentCard)
	r.Get("/health", h.Health)
	r.Post("/a2a/compare", h.A2ACompare)
}
