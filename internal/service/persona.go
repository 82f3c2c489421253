package service

import (
	"context"

	"github.com/personaforge/personaforge/internal/domain/persona"
	"github.com/personaforge/personaforge/internal/port/database"
)

// PersonaService manages persona CRUD and generation params.
type PersonaService struct {
	store database.Store
	hub   Broadcaster
	inv   Invalidator
}

// NewPersonaService creates a new persona service.
func NewPersonaService(store database.Store, hub Broadcaster, inv Invalidator) *PersonaService {
	return &PersonaService{store: store, hub: hub, inv: inv}
}

// List returns all personas.
func (s *PersonaService) List(ctx context.Context) ([]persona.Persona, error) {
	return s.store.ListPersonas(ctx)
}

// Get returns one persona by ID.
func (s *PersonaService) Get(ctx context.Context, id string) (*persona.Persona, error) {
	return s.store.GetPersona(ctx, id)
}

// Create validates the request and inserts a persona with default
// generation params.
func (s *PersonaService) Create(ctx context.Context, req *persona.CreateRequest) (*persona.Persona, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := persona.New(req.Name, req.Description, req.Tags)
	created, err := s.store.CreatePersona(ctx, p, persona.DefaultGenerationParams(p.ID))
	if err != nil {
		return nil, err
	}

	broadcast(ctx, s.hub, EventPersonaCreated, created)
	return created, nil
}

// Update applies a partial update to a persona.
func (s *PersonaService) Update(ctx context.Context, id string, req persona.UpdateRequest) (*persona.Persona, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.store.GetPersona(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(p)

	updated, err := s.store.UpdatePersona(ctx, *p)
	if err != nil {
		return nil, err
	}

	broadcast(ctx, s.hub, EventPersonaUpdated, updated)
	return updated, nil
}

// Delete removes a persona; its tokens cascade in the store.
func (s *PersonaService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeletePersona(ctx, id); err != nil {
		return err
	}

	invalidate(s.inv, id)
	broadcast(ctx, s.hub, EventPersonaDeleted, map[string]string{"id": id})
	return nil
}

// GetParams returns the generation params for a persona.
func (s *PersonaService) GetParams(ctx context.Context, personaID string) (*persona.GenerationParams, error) {
	return s.store.GetGenerationParams(ctx, personaID)
}

// UpdateParams applies a partial update to the generation params.
func (s *PersonaService) UpdateParams(ctx context.Context, personaID string, req persona.UpdateParamsRequest) (*persona.GenerationParams, error) {
	p, err := s.store.GetGenerationParams(ctx, personaID)
	if err != nil {
		return nil, err
	}
	req.Apply(p)
	return s.store.UpdateGenerationParams(ctx, *p)
}
