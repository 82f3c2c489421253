package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	otelx "github.com/personaforge/personaforge/internal/adapter/otel"
	"github.com/personaforge/personaforge/internal/domain/granularity"
	"github.com/personaforge/personaforge/internal/domain/prompt"
	"github.com/personaforge/personaforge/internal/domain/suggestion"
	"github.com/personaforge/personaforge/internal/domain/token"
	"github.com/personaforge/personaforge/internal/port/database"
)

// defaultSuggestionModel is used when neither the request nor the
// persona names a model.
const defaultSuggestionModel = "gpt-4o-mini"

// ChatClient sends a chat completion and returns the raw JSON reply.
// Implemented by the litellm adapter.
type ChatClient interface {
	ChatJSON(ctx context.Context, model, system, user string) ([]byte, error)
}

// SuggestionService asks an LLM for token suggestions grounded in the
// persona's current prompts, and applies accepted ones as tokens.
type SuggestionService struct {
	store   database.Store
	chat    ChatClient
	levels  []granularity.Level
	hub     Broadcaster
	inv     Invalidator
	metrics *otelx.Metrics
}

// NewSuggestionService creates a suggestion service. metrics may be nil.
func NewSuggestionService(store database.Store, chat ChatClient, levels []granularity.Level, hub Broadcaster, inv Invalidator, m *otelx.Metrics) *SuggestionService {
	return &SuggestionService{store: store, chat: chat, levels: levels, hub: hub, inv: inv, metrics: m}
}

// Suggest builds the persona context, queries the model and returns the
// sanitized suggestions. Nothing is persisted.
func (s *SuggestionService) Suggest(ctx context.Context, req *suggestion.Request) (*suggestion.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.chat == nil {
		return nil, fmt.Errorf("no suggestion backend configured")
	}

	p, err := s.store.GetPersona(ctx, req.PersonaID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	tokens, err := s.store.ListTokens(ctx, req.PersonaID)
	if err != nil {
		return nil, err
	}

	opts := prompt.DefaultOptions()
	opts.Separator = cfg.TokenSeparator
	opts.IncludeWeights = cfg.IncludeWeights
	composed := prompt.Compose(tokens, s.levels, opts)

	sctx := suggestion.Context{
		PersonaName:        p.Name,
		PersonaDescription: p.Description,
		Instructions:       p.AIInstructions,
		PositivePrompt:     composed.PositivePrompt,
		NegativePrompt:     composed.NegativePrompt,
		PositiveCount:      composed.PositiveCount,
		NegativeCount:      composed.NegativeCount,
		MaxTokens:          cfg.DefaultMaxTokens,
	}

	model := req.Model
	if model == "" {
		model = p.AIModel
	}
	if model == "" {
		model = defaultSuggestionModel
	}

	if s.metrics != nil {
		s.metrics.SuggestionCalls.Add(ctx, 1)
	}
	start := time.Now()
	raw, err := s.chat.ChatJSON(ctx, model, suggestion.SystemPrompt(req.MaxSuggestions), suggestion.UserPrompt(sctx, req.StyleHints))
	if s.metrics != nil {
		s.metrics.SuggestionDuration.Record(ctx, time.Since(start).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.SuggestionFailures.Add(ctx, 1)
		}
		return nil, fmt.Errorf("suggestion call: %w", err)
	}

	resp := suggestion.Response{Model: model}
	if err := json.Unmarshal(raw, &resp); err != nil {
		if s.metrics != nil {
			s.metrics.SuggestionFailures.Add(ctx, 1)
		}
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	resp.Sanitize()
	s.capPerPolarity(&resp, req.MaxSuggestions)
	return &resp, nil
}

// Apply persists accepted suggestions as new tokens appended to the
// persona. Returns the created tokens in input order.
func (s *SuggestionService) Apply(ctx context.Context, personaID string, suggestions []suggestion.Suggestion) ([]token.Token, error) {
	created := make([]token.Token, 0, len(suggestions))
	for _, sg := range suggestions {
		req := token.CreateRequest{
			PersonaID:     personaID,
			GranularityID: sg.GranularityID,
			Polarity:      sg.Polarity,
			Content:       sg.Content,
			Weight:        sg.SuggestedWeight,
		}
		if err := req.Validate(); err != nil {
			return created, err
		}
		t, err := s.store.CreateToken(ctx, req)
		if err != nil {
			return created, err
		}
		created = append(created, *t)
	}

	if len(created) > 0 {
		invalidate(s.inv, personaID)
		broadcast(ctx, s.hub, EventTokensChanged, map[string]string{"persona_id": personaID})
	}
	return created, nil
}

func (s *SuggestionService) capPerPolarity(resp *suggestion.Response, limit int) {
	counts := map[token.Polarity]int{}
	kept := resp.Suggestions[:0]
	for _, sg := range resp.Suggestions {
		if counts[sg.Polarity] >= limit {
			continue
		}
		counts[sg.Polarity]++
		kept = append(kept, sg)
	}
	resp.Suggestions = kept
}
