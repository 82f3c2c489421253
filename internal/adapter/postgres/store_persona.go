package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/personaforge/personaforge/internal/domain"
	"github.com/personaforge/personaforge/internal/domain/persona"
)

const personaColumns = `id, name, description, tags, ai_model, ai_instructions, created_at, updated_at`

func scanPersona(row scannable) (persona.Persona, error) {
	var p persona.Persona
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Tags, &p.AIModel, &p.AIInstructions, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListPersonas returns all personas, most recently created first.
func (s *Store) ListPersonas(ctx context.Context) ([]persona.Persona, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+personaColumns+` FROM personas ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}
	defer rows.Close()

	var personas []persona.Persona
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, fmt.Errorf("scan persona: %w", err)
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}

// GetPersona returns one persona by ID.
func (s *Store) GetPersona(ctx context.Context, id string) (*persona.Persona, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+personaColumns+` FROM personas WHERE id = $1`, id)

	p, err := scanPersona(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get persona %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get persona %s: %w", id, err)
	}
	return &p, nil
}

// CreatePersona inserts a persona together with its generation params in
// one transaction.
func (s *Store) CreatePersona(ctx context.Context, p persona.Persona, params persona.GenerationParams) (*persona.Persona, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx,
		`INSERT INTO personas (id, name, description, tags, ai_model, ai_instructions, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Description, pgTextArray(p.Tags), p.AIModel, p.AIInstructions, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, "") {
			return nil, fmt.Errorf("persona %q: %w", p.Name, domain.ErrConflict)
		}
		return nil, fmt.Errorf("insert persona: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO generation_params (persona_id, model_id, seed, steps, cfg_scale, sampler, scheduler)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		params.PersonaID, params.ModelID, params.Seed, params.Steps, params.CfgScale, params.Sampler, params.Scheduler)
	if err != nil {
		return nil, fmt.Errorf("insert generation params: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit persona: %w", err)
	}
	return &p, nil
}

// UpdatePersona persists the full persona row.
func (s *Store) UpdatePersona(ctx context.Context, p persona.Persona) (*persona.Persona, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE personas
		 SET name = $2, description = $3, tags = $4, ai_model = $5, ai_instructions = $6, updated_at = $7
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, pgTextArray(p.Tags), p.AIModel, p.AIInstructions, p.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, "") {
			return nil, fmt.Errorf("persona %q: %w", p.Name, domain.ErrConflict)
		}
		return nil, fmt.Errorf("update persona %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update persona %s: %w", p.ID, domain.ErrNotFound)
	}
	return &p, nil
}

// DeletePersona removes a persona; tokens and generation params cascade.
func (s *Store) DeletePersona(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM personas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete persona %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete persona %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// GetGenerationParams returns the generation params for a persona.
func (s *Store) GetGenerationParams(ctx context.Context, personaID string) (*persona.GenerationParams, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT persona_id, model_id, seed, steps, cfg_scale, sampler, scheduler
		 FROM generation_params WHERE persona_id = $1`, personaID)

	var p persona.GenerationParams
	err := row.Scan(&p.PersonaID, &p.ModelID, &p.Seed, &p.Steps, &p.CfgScale, &p.Sampler, &p.Scheduler)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("generation params for %s: %w", personaID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get generation params for %s: %w", personaID, err)
	}
	return &p, nil
}

// UpdateGenerationParams persists the full generation params row.
func (s *Store) UpdateGenerationParams(ctx context.Context, p persona.GenerationParams) (*persona.GenerationParams, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE generation_params
		 SET model_id = $2, seed = $3, steps = $4, cfg_scale = $5, sampler = $6, scheduler = $7
		 WHERE persona_id = $1`,
		p.PersonaID, p.ModelID, p.Seed, p.Steps, p.CfgScale, p.Sampler, p.Scheduler)
	if err != nil {
		return nil, fmt.Errorf("update generation params for %s: %w", p.PersonaID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("generation params for %s: %w", p.PersonaID, domain.ErrNotFound)
	}
	return &p, nil
}
