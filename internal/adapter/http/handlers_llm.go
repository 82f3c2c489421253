package http

import "net/http"

// ListLLMModels handles GET /llm/models, proxied to LiteLLM.
func (h *Handlers) ListLLMModels(w http.ResponseWriter, r *http.Request) {
	if h.LiteLLM == nil {
		writeError(w, http.StatusServiceUnavailable, "llm proxy not configured")
		return
	}
	models, err := h.LiteLLM.ListModels(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

// LLMHealth handles GET /llm/health.
func (h *Handlers) LLMHealth(w http.ResponseWriter, r *http.Request) {
	if h.LiteLLM == nil {
		writeError(w, http.StatusServiceUnavailable, "llm proxy not configured")
		return
	}
	healthy, err := h.LiteLLM.Health(r.Context())
	status := map[string]bool{"healthy": healthy}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
