package http

import (
	"net/http"

	"github.com/personaforge/personaforge/internal/domain/token"
)

// ListTokens handles GET /personas/{id}/tokens.
func (h *Handlers) ListTokens(w http.ResponseWriter, r *http.Request) {
	handleListByParam("id", h.Tokens.List, "persona not found")(w, r)
}

// CreateToken handles POST /personas/{id}/tokens. The persona ID comes
// from the URL, not the body.
func (h *Handlers) CreateToken(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[token.CreateRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	req.PersonaID = urlParam(r, "id")

	t, err := h.Tokens.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "persona not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// CreateTokenBatch handles POST /personas/{id}/tokens/batch. The body
// carries comma-separated contents; blanks are dropped.
func (h *Handlers) CreateTokenBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[token.BatchCreateRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	req.PersonaID = urlParam(r, "id")

	tokens, err := h.Tokens.CreateBatch(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "persona not found")
		return
	}
	if tokens == nil {
		tokens = []token.Token{}
	}
	writeJSON(w, http.StatusCreated, tokens)
}

// UpdateToken handles PUT /tokens/{id}.
func (h *Handlers) UpdateToken(w http.ResponseWriter, r *http.Request) {
	handleUpdate[token.UpdateRequest](maxRequestBodySize, h.Tokens.Update, "token not found")(w, r)
}

// DeleteToken handles DELETE /tokens/{id}.
func (h *Handlers) DeleteToken(w http.ResponseWriter, r *http.Request) {
	handleDelete(h.Tokens.Delete, "token not found")(w, r)
}

// ReorderTokens handles POST /personas/{id}/tokens/reorder. All
// assignments apply atomically or not at all.
func (h *Handlers) ReorderTokens(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[token.ReorderRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	req.PersonaID = urlParam(r, "id")

	if err := h.Tokens.Reorder(r.Context(), req); err != nil {
		writeDomainError(w, err, "token not found")
		return
	}

	tokens, err := h.Tokens.List(r.Context(), req.PersonaID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}
