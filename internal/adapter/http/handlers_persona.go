package http

import (
	"net/http"

	"github.com/personaforge/personaforge/internal/domain/persona"
)

// ListPersonas handles GET /personas.
func (h *Handlers) ListPersonas(w http.ResponseWriter, r *http.Request) {
	handleList(h.Personas.List)(w, r)
}

// GetPersona handles GET /personas/{id}.
func (h *Handlers) GetPersona(w http.ResponseWriter, r *http.Request) {
	handleGet(h.Personas.Get, "persona not found")(w, r)
}

// CreatePersona handles POST /personas.
func (h *Handlers) CreatePersona(w http.ResponseWriter, r *http.Request) {
	handleCreate[persona.CreateRequest](maxRequestBodySize, h.Personas.Create)(w, r)
}

// UpdatePersona handles PUT /personas/{id}.
func (h *Handlers) UpdatePersona(w http.ResponseWriter, r *http.Request) {
	handleUpdate[persona.UpdateRequest](maxRequestBodySize, h.Personas.Update, "persona not found")(w, r)
}

// DeletePersona handles DELETE /personas/{id}.
func (h *Handlers) DeletePersona(w http.ResponseWriter, r *http.Request) {
	handleDelete(h.Personas.Delete, "persona not found")(w, r)
}

// GetGenerationParams handles GET /personas/{id}/params.
func (h *Handlers) GetGenerationParams(w http.ResponseWriter, r *http.Request) {
	handleGet(h.Personas.GetParams, "persona not found")(w, r)
}

// UpdateGenerationParams handles PUT /personas/{id}/params.
func (h *Handlers) UpdateGenerationParams(w http.ResponseWriter, r *http.Request) {
	handleUpdate[persona.UpdateParamsRequest](maxRequestBodySize, h.Personas.UpdateParams, "persona not found")(w, r)
}
