package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"1.0.0"}`))
		})

		// Taxonomy
		r.Get("/granularities", h.ListGranularities)

		// Personas
		r.Get("/personas", h.ListPersonas)
		r.Post("/personas", h.CreatePersona)
		r.Post("/personas/import", h.ImportPersona)
		r.Get("/personas/{id}", h.GetPersona)
		r.Put("/personas/{id}", h.UpdatePersona)
		r.Delete("/personas/{id}", h.DeletePersona)

		// Generation params (nested under personas)
		r.Get("/personas/{id}/params", h.GetGenerationParams)
		r.Put("/personas/{id}/params", h.UpdateGenerationParams)

		// Tokens (nested under personas)
		r.Get("/personas/{id}/tokens", h.ListTokens)
		r.Post("/personas/{id}/tokens", h.CreateToken)
		r.Post("/personas/{id}/tokens/batch", h.CreateTokenBatch)
		r.Post("/personas/{id}/tokens/reorder", h.ReorderTokens)

		// Tokens (direct access)
		r.Put("/tokens/{id}", h.UpdateToken)
		r.Delete("/tokens/{id}", h.DeleteToken)

		// Prompt composition
		r.Post("/personas/{id}/compose", h.ComposePrompt)

		// AI suggestions
		r.Post("/personas/{id}/suggest", h.SuggestTokens)
		r.Post("/personas/{id}/suggest/apply", h.ApplySuggestions)

		// Export
		r.Get("/personas/{id}/export", h.ExportPersona)

		// LLM management (proxied to LiteLLM)
		r.Get("/llm/models", h.ListLLMModels)
		r.Get("/llm/health", h.LLMHealth)

		// Settings
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
	})
}
