// Package token defines the token entity, the atomic weighted text
// fragment a persona's prompts are assembled from.
package token

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/personaforge/personaforge/internal/domain"
	"github.com/personaforge/personaforge/internal/domain/granularity"
)

// Polarity routes a token into the positive or the negative prompt.
type Polarity string

const (
	// Positive marks a desired characteristic.
	Positive Polarity = "positive"
	// Negative marks a characteristic to exclude.
	Negative Polarity = "negative"
)

// Valid reports whether p is one of the two known polarities.
func (p Polarity) Valid() bool {
	return p == Positive || p == Negative
}

// DefaultWeight is the neutral emphasis applied when none is given.
const DefaultWeight = 1.0

// weightEpsilon decides whether a weight counts as the default. The
// comparison is numeric: a weight of 1.04 still renders decorated even
// though it formats as "1.0".
const weightEpsilon = 1e-9

// Token is a single descriptive fragment belonging to a persona.
//
// Position is the global ordering key: unique within the persona, not
// necessarily contiguous. Composition sorts by it and nothing else.
type Token struct {
	ID            string    `json:"id"`
	PersonaID     string    `json:"persona_id"`
	GranularityID string    `json:"granularity_id"`
	Polarity      Polarity  `json:"polarity"`
	Content       string    `json:"content"`
	Weight        float64   `json:"weight"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// New builds a token with a fresh UUID and current timestamps.
func New(personaID, granularityID string, polarity Polarity, content string, weight float64, position int) Token {
	now := time.Now().UTC()
	return Token{
		ID:            uuid.NewString(),
		PersonaID:     personaID,
		GranularityID: granularityID,
		Polarity:      polarity,
		Content:       content,
		Weight:        weight,
		Position:      position,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// HasDefaultWeight reports whether the weight is close enough to 1.0 to
// render undecorated.
func (t Token) HasDefaultWeight() bool {
	return math.Abs(t.Weight-DefaultWeight) <= weightEpsilon
}

// FormatForPrompt renders the fragment for a composed prompt string.
// With weights enabled and a non-default weight it produces
// "(content:1.2)"; otherwise the bare content.
func (t Token) FormatForPrompt(includeWeight bool) string {
	if includeWeight && !t.HasDefaultWeight() {
		return fmt.Sprintf("(%s:%.1f)", t.Content, t.Weight)
	}
	return t.Content
}

// CreateRequest creates a single token.
type CreateRequest struct {
	PersonaID     string   `json:"persona_id"`
	GranularityID string   `json:"granularity_id"`
	Polarity      Polarity `json:"polarity"`
	Content       string   `json:"content"`
	Weight        float64  `json:"weight"`
}

// Validate checks the request and normalizes content and weight.
func (r *CreateRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		return fmt.Errorf("content is required: %w", domain.ErrValidation)
	}
	if !granularity.Valid(r.GranularityID) {
		return fmt.Errorf("unknown granularity %q: %w", r.GranularityID, domain.ErrValidation)
	}
	if !r.Polarity.Valid() {
		return fmt.Errorf("unknown polarity %q: %w", r.Polarity, domain.ErrValidation)
	}
	if r.Weight == 0 {
		r.Weight = DefaultWeight
	}
	if r.Weight < 0 {
		return fmt.Errorf("weight must be positive: %w", domain.ErrValidation)
	}
	return nil
}

// BatchCreateRequest creates several tokens from comma-separated input.
// All tokens share the granularity, polarity and weight of the request.
type BatchCreateRequest struct {
	PersonaID     string   `json:"persona_id"`
	GranularityID string   `json:"granularity_id"`
	Polarity      Polarity `json:"polarity"`
	Contents      string   `json:"contents"`
	Weight        float64  `json:"weight"`
}

// Validate checks the request shape. Content splitting happens separately
// via ParseContents.
func (r *BatchCreateRequest) Validate() error {
	if !granularity.Valid(r.GranularityID) {
		return fmt.Errorf("unknown granularity %q: %w", r.GranularityID, domain.ErrValidation)
	}
	if !r.Polarity.Valid() {
		return fmt.Errorf("unknown polarity %q: %w", r.Polarity, domain.ErrValidation)
	}
	if r.Weight == 0 {
		r.Weight = DefaultWeight
	}
	if r.Weight < 0 {
		return fmt.Errorf("weight must be positive: %w", domain.ErrValidation)
	}
	return nil
}

// ParseContents splits the comma-separated contents, trims each entry and
// drops blanks. Dropped entries never consume a position slot.
func (r *BatchCreateRequest) ParseContents() []string {
	parts := strings.Split(r.Contents, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// UpdateRequest is a partial update; nil fields keep their current value.
// Position is deliberately absent: plain updates never move a token.
type UpdateRequest struct {
	Content       *string   `json:"content,omitempty"`
	Weight        *float64  `json:"weight,omitempty"`
	GranularityID *string   `json:"granularity_id,omitempty"`
	Polarity      *Polarity `json:"polarity,omitempty"`
}

// Validate checks the provided fields and trims content.
func (r *UpdateRequest) Validate() error {
	if r.Content != nil {
		c := strings.TrimSpace(*r.Content)
		if c == "" {
			return fmt.Errorf("content must not be empty: %w", domain.ErrValidation)
		}
		r.Content = &c
	}
	if r.Weight != nil && *r.Weight <= 0 {
		return fmt.Errorf("weight must be positive: %w", domain.ErrValidation)
	}
	if r.GranularityID != nil && !granularity.Valid(*r.GranularityID) {
		return fmt.Errorf("unknown granularity %q: %w", *r.GranularityID, domain.ErrValidation)
	}
	if r.Polarity != nil && !r.Polarity.Valid() {
		return fmt.Errorf("unknown polarity %q: %w", *r.Polarity, domain.ErrValidation)
	}
	return nil
}

// Apply copies the provided fields onto t and refreshes UpdatedAt.
func (r *UpdateRequest) Apply(t *Token) {
	if r.Content != nil {
		t.Content = *r.Content
	}
	if r.Weight != nil {
		t.Weight = *r.Weight
	}
	if r.GranularityID != nil {
		t.GranularityID = *r.GranularityID
	}
	if r.Polarity != nil {
		t.Polarity = *r.Polarity
	}
	t.UpdatedAt = time.Now().UTC()
}

// PositionAssignment pairs a token with its target position in a reorder.
type PositionAssignment struct {
	TokenID  string `json:"token_id"`
	Position int    `json:"position"`
}

// ReorderRequest applies a caller-computed ordering to a persona's tokens.
// The caller owns permutation consistency; the store only verifies
// existence and ownership before applying all assignments atomically.
type ReorderRequest struct {
	PersonaID   string               `json:"persona_id"`
	Assignments []PositionAssignment `json:"assignments"`
}

// Validate checks the request shape.
func (r *ReorderRequest) Validate() error {
	if r.PersonaID == "" {
		return fmt.Errorf("persona_id is required: %w", domain.ErrValidation)
	}
	if len(r.Assignments) == 0 {
		return fmt.Errorf("assignments are required: %w", domain.ErrValidation)
	}
	for _, a := range r.Assignments {
		if a.TokenID == "" {
			return fmt.Errorf("assignment token_id is required: %w", domain.ErrValidation)
		}
	}
	return nil
}
