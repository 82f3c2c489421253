// Package export defines the versioned JSON bundle used to move a single
// persona (with its tokens and generation params) between installations.
package export

import (
	"fmt"
	"strings"

	"github.com/personaforge/personaforge/internal/domain"
	"github.com/personaforge/personaforge/internal/domain/persona"
	"github.com/personaforge/personaforge/internal/domain/token"
)

// SchemaVersion identifies the bundle layout. Bump on incompatible
// changes; Validate rejects anything else.
const SchemaVersion = 2

// Bundle is a complete snapshot of one persona.
//
// Token positions are exported as-is (global ordering, possibly with
// gaps); import reassigns a dense sequence while preserving order.
type Bundle struct {
	SchemaVersion int                      `json:"schema_version"`
	Persona       persona.Persona          `json:"persona"`
	Params        persona.GenerationParams `json:"generation_params"`
	Tokens        []token.Token            `json:"tokens"`
}

// Validate checks the bundle can be imported. Token content is trimmed
// in place; hand-edited bundles may carry stray whitespace.
func (b *Bundle) Validate() error {
	if b.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d (want %d): %w",
			b.SchemaVersion, SchemaVersion, domain.ErrValidation)
	}
	if b.Persona.Name == "" {
		return fmt.Errorf("bundle persona has no name: %w", domain.ErrValidation)
	}
	for i := range b.Tokens {
		b.Tokens[i].Content = strings.TrimSpace(b.Tokens[i].Content)
		if b.Tokens[i].Content == "" {
			return fmt.Errorf("bundle token %d has empty content: %w", i, domain.ErrValidation)
		}
	}
	return nil
}
