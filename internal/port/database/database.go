// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/personaforge/personaforge/internal/domain/persona"
	"github.com/personaforge/personaforge/internal/domain/settings"
	"github.com/personaforge/personaforge/internal/domain/token"
)

// Store is the port interface for database operations.
type Store interface {
	// Personas
	ListPersonas(ctx context.Context) ([]persona.Persona, error)
	GetPersona(ctx context.Context, id string) (*persona.Persona, error)
	CreatePersona(ctx context.Context, p persona.Persona, params persona.GenerationParams) (*persona.Persona, error)
	UpdatePersona(ctx context.Context, p persona.Persona) (*persona.Persona, error)
	DeletePersona(ctx context.Context, id string) error

	// Generation params
	GetGenerationParams(ctx context.Context, personaID string) (*persona.GenerationParams, error)
	UpdateGenerationParams(ctx context.Context, p persona.GenerationParams) (*persona.GenerationParams, error)

	// Tokens
	ListTokens(ctx context.Context, personaID string) ([]token.Token, error)
	GetToken(ctx context.Context, id string) (*token.Token, error)
	CreateToken(ctx context.Context, req token.CreateRequest) (*token.Token, error)
	CreateTokenBatch(ctx context.Context, req token.BatchCreateRequest, contents []string) ([]token.Token, error)
	UpdateToken(ctx context.Context, id string, req token.UpdateRequest) (*token.Token, error)
	DeleteToken(ctx context.Context, id string) error
	ReorderTokens(ctx context.Context, req token.ReorderRequest) error
	ImportTokens(ctx context.Context, personaID string, tokens []token.Token) error

	// Settings
	GetSettings(ctx context.Context) (*settings.Settings, error)
	UpdateSettings(ctx context.Context, req settings.UpdateRequest) (*settings.Settings, error)
}
