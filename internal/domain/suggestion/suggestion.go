// Package suggestion defines the request/response types for AI token
// suggestions and builds the prompts sent to the LLM proxy.
//
// The provider integration stays opaque: this package only produces a
// prompt string and parses the structured reply. Transport lives in the
// litellm adapter.
package suggestion

import (
	"fmt"
	"strings"

	"github.com/personaforge/personaforge/internal/domain"
	"github.com/personaforge/personaforge/internal/domain/granularity"
	"github.com/personaforge/personaforge/internal/domain/token"
)

// Request asks for token suggestions for one persona.
type Request struct {
	PersonaID string `json:"persona_id"`
	// StyleHints is free-form guidance ("gothic, rainy night").
	StyleHints string `json:"style_hints"`
	// MaxSuggestions caps the number of returned suggestions per polarity.
	MaxSuggestions int `json:"max_suggestions"`
	// Model overrides the persona's configured suggestion model.
	Model string `json:"model"`
}

// Validate checks the request and applies defaults.
func (r *Request) Validate() error {
	if r.PersonaID == "" {
		return fmt.Errorf("persona_id is required: %w", domain.ErrValidation)
	}
	if r.MaxSuggestions <= 0 {
		r.MaxSuggestions = 10
	}
	if r.MaxSuggestions > 50 {
		return fmt.Errorf("max_suggestions exceeds 50: %w", domain.ErrValidation)
	}
	return nil
}

// Suggestion is a single proposed token.
type Suggestion struct {
	Content         string         `json:"content"`
	GranularityID   string         `json:"granularity_id"`
	Polarity        token.Polarity `json:"polarity"`
	SuggestedWeight float64        `json:"suggested_weight"`
	Rationale       string         `json:"rationale,omitempty"`
}

// Response carries the parsed suggestions plus the model that produced
// them.
type Response struct {
	Model       string       `json:"model"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Sanitize drops suggestions that cannot be applied: blank content,
// unknown polarity or granularity, non-positive weight. It keeps the
// relative order of the survivors.
func (r *Response) Sanitize() {
	kept := r.Suggestions[:0]
	for _, s := range r.Suggestions {
		s.Content = strings.TrimSpace(s.Content)
		if s.Content == "" || !granularity.Valid(s.GranularityID) {
			continue
		}
		if !s.Polarity.Valid() {
			s.Polarity = token.Positive
		}
		if s.SuggestedWeight <= 0 {
			s.SuggestedWeight = token.DefaultWeight
		}
		kept = append(kept, s)
	}
	r.Suggestions = kept
}

// Context is the persona state woven into the prompts.
type Context struct {
	PersonaName        string
	PersonaDescription string
	Instructions       string
	PositivePrompt     string
	NegativePrompt     string
	PositiveCount      int
	NegativeCount      int
	MaxTokens          int
}

// SystemPrompt builds the system message for the suggestion call.
func SystemPrompt(maxSuggestions int) string {
	var b strings.Builder
	b.WriteString("You are an expert prompt engineer for AI image generation.\n\n")
	b.WriteString("Generate visually descriptive prompt tokens for a character persona.\n")
	fmt.Fprintf(&b, "Return at most %d positive and %d negative suggestions.\n\n", maxSuggestions, maxSuggestions)
	b.WriteString("TOKEN REQUIREMENTS:\n")
	b.WriteString("- Visually specific and concrete (\"auburn wavy hair\", not \"hair\")\n")
	b.WriteString("- positive polarity: desirable characteristics; negative: elements to exclude\n")
	b.WriteString("- suggested_weight between 0.8 and 1.5, 1.0 for neutral emphasis\n\n")
	b.WriteString("GRANULARITY IDS:\n")
	for _, l := range granularity.All() {
		fmt.Fprintf(&b, "- %s: %s\n", l.ID, l.Name)
	}
	b.WriteString("\nRespond with JSON: {\"suggestions\": [{\"content\", \"granularity_id\", \"polarity\", \"suggested_weight\", \"rationale\"}]}")
	return b.String()
}

// UserPrompt builds the user message from the persona context and hints.
func UserPrompt(c Context, styleHints string) string {
	var sections []string

	p := "PERSONA: " + c.PersonaName
	if c.PersonaDescription != "" {
		p += "\nDescription:\n```\n" + c.PersonaDescription + "\n```"
	}
	sections = append(sections, p)

	if c.PositivePrompt != "" || c.NegativePrompt != "" {
		s := "CURRENT PROMPTS:"
		if c.PositivePrompt != "" {
			s += fmt.Sprintf("\nPositive (%d/%d tokens): %s", c.PositiveCount, c.MaxTokens, c.PositivePrompt)
		}
		if c.NegativePrompt != "" {
			s += fmt.Sprintf("\nNegative (%d/%d tokens): %s", c.NegativeCount, c.MaxTokens, c.NegativePrompt)
		}
		sections = append(sections, s)
	}

	sections = append(sections, "TASK: Suggest new tokens that complement the current prompts without duplicating them.")

	if hints := strings.TrimSpace(styleHints); hints != "" {
		sections = append(sections, "CONTEXT:\n```\n"+hints+"\n```")
	}
	if c.Instructions != "" {
		sections = append(sections, "ADDITIONAL INSTRUCTIONS:\n"+c.Instructions)
	}

	return strings.Join(sections, "\n\n")
}
