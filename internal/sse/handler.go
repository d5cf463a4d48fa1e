package sse

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Handler streams hub events to one client. Query parameters:
// game=<id> follows a single game, types=a,b limits the event types.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, ErrMsgStreamingNotSupported, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		gameID := r.URL.Query().Get(QueryParamGame)
		var eventTypes []string
		if filter := r.URL.Query().Get(QueryParamTypes); filter != "" {
			eventTypes = strings.Split(filter, ",")
		}

		client := hub.Register(gameID, eventTypes)
		slog.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"game_id", gameID,
			"filters", eventTypes)

		defer func() {
			hub.Unregister(client.ID)
			slog.Info(LogMsgClientDisconnected, "client_id", client.ID, "game_id", gameID)
		}()

		write := func(evt Event) bool {
			msg, err := FormatSSEMessage(evt)
			if err != nil {
				slog.Error(LogMsgWriteError, "error", err, "event_type", evt.Type)
				return true
			}
			if _, err := w.Write(msg); err != nil {
				slog.Warn(LogMsgWriteError, "error", err, "client_id", client.ID)
				return false
			}
			flusher.Flush()
			return true
		}

		if !write(Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			GameID:    gameID,
			Timestamp: time.Now().Unix(),
			Payload: ConnectedPayload{
				ClientID: client.ID,
				GameID:   gameID,
				Filters:  eventTypes,
			},
		}) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return

			case evt, ok := <-client.EventChannel:
				if !ok {
					// Hub is shutting down
					return
				}
				if !write(evt) {
					return
				}

			case <-ticker.C:
				if !write(Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}
