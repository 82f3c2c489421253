package service

import (
	"context"

	"github.com/personaforge/personaforge/internal/domain/token"
	"github.com/personaforge/personaforge/internal/port/database"
)

// TokenService manages token CRUD and reordering for personas.
type TokenService struct {
	store database.Store
	hub   Broadcaster
	inv   Invalidator
}

// NewTokenService creates a new token service.
func NewTokenService(store database.Store, hub Broadcaster, inv Invalidator) *TokenService {
	return &TokenService{store: store, hub: hub, inv: inv}
}

// List returns all tokens of a persona, ordered by position.
func (s *TokenService) List(ctx context.Context, personaID string) ([]token.Token, error) {
	return s.store.ListTokens(ctx, personaID)
}

// Create appends a single token after all existing tokens of the persona.
func (s *TokenService) Create(ctx context.Context, req *token.CreateRequest) (*token.Token, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.store.CreateToken(ctx, *req)
	if err != nil {
		return nil, err
	}

	s.tokensChanged(ctx, t.PersonaID)
	return t, nil
}

// CreateBatch splits comma-separated contents into tokens and appends
// them with consecutive positions. Blank entries are dropped before
// position assignment.
func (s *TokenService) CreateBatch(ctx context.Context, req *token.BatchCreateRequest) ([]token.Token, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	contents := req.ParseContents()
	tokens, err := s.store.CreateTokenBatch(ctx, *req, contents)
	if err != nil {
		return nil, err
	}

	if len(tokens) > 0 {
		s.tokensChanged(ctx, req.PersonaID)
	}
	return tokens, nil
}

// Update applies a partial update to a token. Position never changes here.
func (s *TokenService) Update(ctx context.Context, id string, req token.UpdateRequest) (*token.Token, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.store.UpdateToken(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.tokensChanged(ctx, t.PersonaID)
	return t, nil
}

// Delete removes a token. The resulting position gap is left alone;
// ordering is derived, not dense.
func (s *TokenService) Delete(ctx context.Context, id string) error {
	t, err := s.store.GetToken(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteToken(ctx, id); err != nil {
		return err
	}

	s.tokensChanged(ctx, t.PersonaID)
	return nil
}

// Reorder atomically applies a caller-computed position assignment.
func (s *TokenService) Reorder(ctx context.Context, req token.ReorderRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.store.ReorderTokens(ctx, req); err != nil {
		return err
	}

	invalidate(s.inv, req.PersonaID)
	broadcast(ctx, s.hub, EventTokensReordered, map[string]string{"persona_id": req.PersonaID})
	return nil
}

func (s *TokenService) tokensChanged(ctx context.Context, personaID string) {
	invalidate(s.inv, personaID)
	broadcast(ctx, s.hub, EventTokensChanged, map[string]string{"persona_id": personaID})
}
