package sse

// ConnectedPayload is the first message of every stream
type ConnectedPayload struct {
	ClientID string   `json:"client_id"`
	GameID   string   `json:"game_id,omitempty"`
	Filters  []string `json:"filters,omitempty"`
}
