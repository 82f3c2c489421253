package http

import (
	"net/http"

	"github.com/personaforge/personaforge/internal/domain/suggestion"
)

// SuggestTokens handles POST /personas/{id}/suggest. Returns proposed
// tokens without persisting anything.
func (h *Handlers) SuggestTokens(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[suggestion.Request](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	req.PersonaID = urlParam(r, "id")

	resp, err := h.Suggestions.Suggest(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "persona not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// applySuggestionsRequest carries the suggestions the user accepted.
type applySuggestionsRequest struct {
	Suggestions []suggestion.Suggestion `json:"suggestions"`
}

// ApplySuggestions handles POST /personas/{id}/suggest/apply. Accepted
// suggestions become tokens appended to the persona.
func (h *Handlers) ApplySuggestions(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[applySuggestionsRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	if len(req.Suggestions) == 0 {
		writeError(w, http.StatusBadRequest, "suggestions are required")
		return
	}

	created, err := h.Suggestions.Apply(r.Context(), urlParam(r, "id"), req.Suggestions)
	if err != nil {
		writeDomainError(w, err, "persona not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
