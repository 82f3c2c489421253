package http

import (
	"net/http"

	"github.com/personaforge/personaforge/internal/domain/export"
)

// maxBundleSize bounds import payloads; bundles are larger than normal
// request bodies.
const maxBundleSize = 8 << 20 // 8 MB

// ExportPersona handles GET /personas/{id}/export.
func (h *Handlers) ExportPersona(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.Exports.Export(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "persona not found")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="persona.json"`)
	writeJSON(w, http.StatusOK, bundle)
}

// ImportPersona handles POST /personas/import. The bundle becomes a new
// persona with fresh IDs; name collisions get a suffix.
func (h *Handlers) ImportPersona(w http.ResponseWriter, r *http.Request) {
	bundle, ok := readJSON[export.Bundle](w, r, maxBundleSize)
	if !ok {
		return
	}

	created, err := h.Exports.Import(r.Context(), &bundle)
	if err != nil {
		writeDomainError(w, err, "import failed")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
