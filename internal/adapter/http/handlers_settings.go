package http

import (
	"net/http"

	"github.com/personaforge/personaforge/internal/domain/settings"
)

// GetSettings handles GET /settings.
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Settings.Get(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSettings handles PUT /settings.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[settings.UpdateRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}

	s, err := h.Settings.Update(r.Context(), req)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
