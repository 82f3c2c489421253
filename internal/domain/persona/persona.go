// Package persona defines the persona entity, the owner of a token set.
package persona

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/personaforge/personaforge/internal/domain"
)

// Persona is a character profile. Tokens reference it by ID and are
// deleted with it.
type Persona struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Tags           []string  `json:"tags"`
	AIModel        string    `json:"ai_model"`
	AIInstructions string    `json:"ai_instructions"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GenerationParams holds the image-generation settings stored 1:1 with a
// persona. They are carried for reproducibility and never interpreted by
// this service.
type GenerationParams struct {
	PersonaID string  `json:"persona_id"`
	ModelID   string  `json:"model_id"`
	Seed      int64   `json:"seed"`
	Steps     int     `json:"steps"`
	CfgScale  float64 `json:"cfg_scale"`
	Sampler   string  `json:"sampler"`
	Scheduler string  `json:"scheduler"`
}

// DefaultImageModelID is the fallback image model for new personas.
const DefaultImageModelID = "stabilityai/stable-diffusion-xl-base-1.0"

// DefaultGenerationParams returns the standard settings for a new persona.
func DefaultGenerationParams(personaID string) GenerationParams {
	return GenerationParams{
		PersonaID: personaID,
		ModelID:   DefaultImageModelID,
		Seed:      -1,
		Steps:     30,
		CfgScale:  7.0,
	}
}

// New builds a persona with a fresh UUID and current timestamps.
func New(name, description string, tags []string) Persona {
	now := time.Now().UTC()
	if tags == nil {
		tags = []string{}
	}
	return Persona{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CreateRequest creates a persona. Only the name is required.
type CreateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Validate trims and checks the name.
func (r *CreateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if len(r.Name) > 255 {
		return fmt.Errorf("name exceeds 255 characters: %w", domain.ErrValidation)
	}
	return nil
}

// UpdateRequest is a partial update; nil fields keep their current value.
type UpdateRequest struct {
	Name           *string   `json:"name,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	AIModel        *string   `json:"ai_model,omitempty"`
	AIInstructions *string   `json:"ai_instructions,omitempty"`
}

// Validate checks the provided fields.
func (r *UpdateRequest) Validate() error {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return fmt.Errorf("name must not be empty: %w", domain.ErrValidation)
		}
		if len(n) > 255 {
			return fmt.Errorf("name exceeds 255 characters: %w", domain.ErrValidation)
		}
		r.Name = &n
	}
	return nil
}

// Apply copies the provided fields onto p and refreshes UpdatedAt.
func (r *UpdateRequest) Apply(p *Persona) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Tags != nil {
		p.Tags = *r.Tags
	}
	if r.AIModel != nil {
		p.AIModel = *r.AIModel
	}
	if r.AIInstructions != nil {
		p.AIInstructions = *r.AIInstructions
	}
	p.UpdatedAt = time.Now().UTC()
}

// UpdateParamsRequest is a partial update of generation params.
type UpdateParamsRequest struct {
	ModelID   *string  `json:"model_id,omitempty"`
	Seed      *int64   `json:"seed,omitempty"`
	Steps     *int     `json:"steps,omitempty"`
	CfgScale  *float64 `json:"cfg_scale,omitempty"`
	Sampler   *string  `json:"sampler,omitempty"`
	Scheduler *string  `json:"scheduler,omitempty"`
}

// Apply copies the provided fields onto p.
func (r *UpdateParamsRequest) Apply(p *GenerationParams) {
	if r.ModelID != nil {
		p.ModelID = *r.ModelID
	}
	if r.Seed != nil {
		p.Seed = *r.Seed
	}
	if r.Steps != nil {
		p.Steps = *r.Steps
	}
	if r.CfgScale != nil {
		p.CfgScale = *r.CfgScale
	}
	if r.Sampler != nil {
		p.Sampler = *r.Sampler
	}
	if r.Scheduler != nil {
		p.Scheduler = *r.Scheduler
	}
}
