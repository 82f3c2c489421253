package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event type constants for WebSocket messages. They mirror the event
// names the services broadcast.
const (
	EventPersonaCreated  = "persona.created"
	EventPersonaUpdated  = "persona.updated"
	EventPersonaDeleted  = "persona.deleted"
	EventTokensChanged   = "tokens.changed"
	EventTokensReordered = "tokens.reordered"
)

// BroadcastEvent marshals a typed event payload and broadcasts it to all
// connected clients. Implements the service Broadcaster interface.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
