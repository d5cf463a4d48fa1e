package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/QuotaPit_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe forwards every game event type to the hub
func (s *Subscriber) Subscribe() {
	types := make([]string, 0, len(event.GameTypes))
	for _, t := range event.GameTypes {
		s.bus.Subscribe(t, s.forward)
		types = append(types, string(t))
	}
	slog.Info(LogMsgSubscriberReady, "types", types)
}

// forward rebroadcasts the typed payload unchanged; renderers decode it by event type
func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	gameID := event.GameIDOf(evt)
	s.hub.Broadcast(string(evt.Type), gameID, evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "game_id", gameID)
	return nil
}
