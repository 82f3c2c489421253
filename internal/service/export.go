package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/personaforge/personaforge/internal/domain"
	"github.com/personaforge/personaforge/internal/domain/export"
	"github.com/personaforge/personaforge/internal/domain/persona"
	"github.com/personaforge/personaforge/internal/port/database"
)

// importNameAttempts bounds the collision-suffix retry on import.
const importNameAttempts = 50

// ExportService moves single personas in and out as versioned JSON
// bundles.
type ExportService struct {
	store database.Store
	hub   Broadcaster
}

// NewExportService creates an export service.
func NewExportService(store database.Store, hub Broadcaster) *ExportService {
	return &ExportService{store: store, hub: hub}
}

// Export snapshots a persona with its generation params and tokens.
// Token positions are exported as stored, gaps included.
func (s *ExportService) Export(ctx context.Context, personaID string) (*export.Bundle, error) {
	p, err := s.store.GetPersona(ctx, personaID)
	if err != nil {
		return nil, err
	}
	params, err := s.store.GetGenerationParams(ctx, personaID)
	if err != nil {
		return nil, err
	}
	tokens, err := s.store.ListTokens(ctx, personaID)
	if err != nil {
		return nil, err
	}

	return &export.Bundle{
		SchemaVersion: export.SchemaVersion,
		Persona:       *p,
		Params:        *params,
		Tokens:        tokens,
	}, nil
}

// Import creates a fresh persona from the bundle. All IDs are reissued
// and token positions compacted to a dense 0..n-1 sequence preserving
// the bundle order. Name collisions get an " (imported)" suffix, then a
// numbered one.
func (s *ExportService) Import(ctx context.Context, b *export.Bundle) (*persona.Persona, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	fresh := persona.New(b.Persona.Name, b.Persona.Description, b.Persona.Tags)
	fresh.AIModel = b.Persona.AIModel
	fresh.AIInstructions = b.Persona.AIInstructions

	params := b.Params
	params.PersonaID = fresh.ID
	if params.ModelID == "" {
		params = persona.DefaultGenerationParams(fresh.ID)
	}

	created, err := s.createWithUniqueName(ctx, fresh, params, b.Persona.Name)
	if err != nil {
		return nil, err
	}

	if err := s.store.ImportTokens(ctx, created.ID, b.Tokens); err != nil {
		return nil, fmt.Errorf("import tokens: %w", err)
	}

	broadcast(ctx, s.hub, EventPersonaCreated, created)
	return created, nil
}

func (s *ExportService) createWithUniqueName(ctx context.Context, p persona.Persona, params persona.GenerationParams, baseName string) (*persona.Persona, error) {
	for attempt := 0; attempt < importNameAttempts; attempt++ {
		switch attempt {
		case 0:
			p.Name = baseName
		case 1:
			p.Name = baseName + " (imported)"
		default:
			p.Name = fmt.Sprintf("%s (imported %d)", baseName, attempt)
		}

		created, err := s.store.CreatePersona(ctx, p, params)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("could not find a free name for %q: %w", baseName, domain.ErrConflict)
}
