package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/personaforge/personaforge/internal/domain"
	"github.com/personaforge/personaforge/internal/domain/token"
)

const tokenColumns = `id, persona_id, granularity_id, polarity, content, weight, position, created_at, updated_at`

// tokensContentKey is the unique constraint on (persona, granularity,
// polarity, content); a violation means a duplicate fragment, not a
// position race.
const tokensContentKey = "tokens_persona_fragment_key"

func scanToken(row scannable) (token.Token, error) {
	var t token.Token
	err := row.Scan(&t.ID, &t.PersonaID, &t.GranularityID, &t.Polarity, &t.Content, &t.Weight, &t.Position, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// lockPersona takes the per-persona write lock for the duration of tx.
// All position-assigning operations go through it, so two writers can
// never compute the next position from the same stale maximum. It also
// confirms the persona exists.
func lockPersona(ctx context.Context, tx pgx.Tx, personaID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM personas WHERE id = $1 FOR UPDATE`, personaID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("persona %s: %w", personaID, domain.ErrNotFound)
		}
		return fmt.Errorf("lock persona %s: %w", personaID, err)
	}
	return nil
}

// nextPosition returns max(position)+1 for the persona, or 0 when it has
// no tokens. Callers must hold the persona lock.
func nextPosition(ctx context.Context, tx pgx.Tx, personaID string) (int, error) {
	var next int
	err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM tokens WHERE persona_id = $1`,
		personaID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next position for %s: %w", personaID, err)
	}
	return next, nil
}

// ListTokens returns all tokens for a persona ordered by position.
func (s *Store) ListTokens(ctx context.Context, personaID string) ([]token.Token, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE persona_id = $1 ORDER BY position`, personaID)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []token.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// GetToken returns one token by ID.
func (s *Store) GetToken(ctx context.Context, id string) (*token.Token, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE id = $1`, id)

	t, err := scanToken(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get token %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get token %s: %w", id, err)
	}
	return &t, nil
}

func insertToken(ctx context.Context, tx pgx.Tx, t token.Token) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO tokens (id, persona_id, granularity_id, polarity, content, weight, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.PersonaID, t.GranularityID, t.Polarity, t.Content, t.Weight, t.Position, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, tokensContentKey) {
			return fmt.Errorf("token %q already exists in this group: %w", t.Content, domain.ErrConflict)
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// CreateToken appends one token after all existing tokens of the persona.
func (s *Store) CreateToken(ctx context.Context, req token.CreateRequest) (*token.Token, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := lockPersona(ctx, tx, req.PersonaID); err != nil {
		return nil, err
	}
	pos, err := nextPosition(ctx, tx, req.PersonaID)
	if err != nil {
		return nil, err
	}

	t := token.New(req.PersonaID, req.GranularityID, req.Polarity, req.Content, req.Weight, pos)
	if err := insertToken(ctx, tx, t); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit token: %w", err)
	}
	return &t, nil
}

// CreateTokenBatch appends the given contents as tokens with strictly
// increasing consecutive positions, in input order. Contents are assumed
// to be pre-trimmed and non-empty (token.BatchCreateRequest.ParseContents
// drops blanks before they can consume a position slot).
func (s *Store) CreateTokenBatch(ctx context.Context, req token.BatchCreateRequest, contents []string) ([]token.Token, error) {
	if len(contents) == 0 {
		return []token.Token{}, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := lockPersona(ctx, tx, req.PersonaID); err != nil {
		return nil, err
	}
	pos, err := nextPosition(ctx, tx, req.PersonaID)
	if err != nil {
		return nil, err
	}

	tokens := make([]token.Token, 0, len(contents))
	for _, content := range contents {
		t := token.New(req.PersonaID, req.GranularityID, req.Polarity, content, req.Weight, pos)
		if err := insertToken(ctx, tx, t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
		pos++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit token batch: %w", err)
	}
	return tokens, nil
}

// UpdateToken applies a partial update. Position is never touched.
func (s *Store) UpdateToken(ctx context.Context, id string, req token.UpdateRequest) (*token.Token, error) {
	t, err := s.GetToken(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(t)

	_, err = s.pool.Exec(ctx,
		`UPDATE tokens
		 SET content = $2, weight = $3, granularity_id = $4, polarity = $5, updated_at = $6
		 WHERE id = $1`,
		t.ID, t.Content, t.Weight, t.GranularityID, t.Polarity, t.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, tokensContentKey) {
			return nil, fmt.Errorf("token %q already exists in this group: %w", t.Content, domain.ErrConflict)
		}
		return nil, fmt.Errorf("update token %s: %w", id, err)
	}
	return t, nil
}

// DeleteToken removes a token, leaving a gap in the position sequence.
func (s *Store) DeleteToken(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete token %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete token %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ReorderTokens applies a caller-computed set of position assignments as
// one atomic unit. The validation pass runs entirely before the first
// update, so a rejected request leaves every position unchanged. The
// position unique constraint is deferred, which lets a permutation move
// through intermediate duplicates inside the transaction.
func (s *Store) ReorderTokens(ctx context.Context, req token.ReorderRequest) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := lockPersona(ctx, tx, req.PersonaID); err != nil {
		return err
	}

	ids := make([]string, len(req.Assignments))
	for i, a := range req.Assignments {
		ids[i] = a.TokenID
	}

	rows, err := tx.Query(ctx,
		`SELECT id, persona_id FROM tokens WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return fmt.Errorf("load tokens for reorder: %w", err)
	}
	owner := make(map[string]string, len(ids))
	for rows.Next() {
		var id, personaID string
		if err := rows.Scan(&id, &personaID); err != nil {
			rows.Close()
			return fmt.Errorf("scan token owner: %w", err)
		}
		owner[id] = personaID
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load tokens for reorder: %w", err)
	}

	for _, a := range req.Assignments {
		personaID, ok := owner[a.TokenID]
		if !ok {
			return fmt.Errorf("token %s: %w", a.TokenID, domain.ErrNotFound)
		}
		if personaID != req.PersonaID {
			return fmt.Errorf("token %s does not belong to persona %s: %w",
				a.TokenID, req.PersonaID, domain.ErrValidation)
		}
	}

	now := time.Now().UTC()
	for _, a := range req.Assignments {
		if _, err := tx.Exec(ctx,
			`UPDATE tokens SET position = $2, updated_at = $3 WHERE id = $1`,
			a.TokenID, a.Position, now); err != nil {
			return fmt.Errorf("reorder token %s: %w", a.TokenID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}
