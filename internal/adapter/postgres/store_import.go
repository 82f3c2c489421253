package postgres

import (
	"context"
	"fmt"

	"github.com/personaforge/personaforge/internal/domain/token"
)

// ImportTokens inserts bundle tokens for a freshly imported persona in
// one transaction, reassigning a dense 0..N position sequence in slice
// order. Exported bundles may carry gaps; relative order is what survives.
// Every token is rebuilt with a fresh ID and timestamps — the bundle may
// come from this very database, and reusing its IDs would collide with
// the originals.
func (s *Store) ImportTokens(ctx context.Context, personaID string, tokens []token.Token) error {
	if len(tokens) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := lockPersona(ctx, tx, personaID); err != nil {
		return err
	}

	for i, t := range tokens {
		fresh := token.New(personaID, t.GranularityID, t.Polarity, t.Content, t.Weight, i)
		if err := insertToken(ctx, tx, fresh); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}
