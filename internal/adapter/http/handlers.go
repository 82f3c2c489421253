package http

import (
	"net/http"

	"github.com/personaforge/personaforge/internal/adapter/litellm"
	"github.com/personaforge/personaforge/internal/domain/granularity"
	"github.com/personaforge/personaforge/internal/service"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Personas    *service.PersonaService
	Tokens      *service.TokenService
	Prompts     *service.PromptService
	Suggestions *service.SuggestionService
	Exports     *service.ExportService
	Settings    *service.SettingsService
	LiteLLM     *litellm.Client
}

// ListGranularities returns the fixed taxonomy in display order.
func (h *Handlers) ListGranularities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, granularity.All())
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
