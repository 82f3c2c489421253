// Package service contains the application services sitting between the
// transport adapters and the database port.
package service

import "context"

// Broadcaster pushes change events to connected UI clients. Implemented
// by the ws hub; a nil Broadcaster disables events.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}

// Invalidator drops cached state derived from a persona's tokens.
// Implemented by PromptService.
type Invalidator interface {
	Invalidate(personaID string)
}

// Event types broadcast over the ws hub.
const (
	EventPersonaCreated  = "persona.created"
	EventPersonaUpdated  = "persona.updated"
	EventPersonaDeleted  = "persona.deleted"
	EventTokensChanged   = "tokens.changed"
	EventTokensReordered = "tokens.reordered"
)

func broadcast(ctx context.Context, b Broadcaster, eventType string, payload any) {
	if b != nil {
		b.BroadcastEvent(ctx, eventType, payload)
	}
}

func invalidate(inv Invalidator, personaID string) {
	if inv != nil {
		inv.Invalidate(personaID)
	}
}
