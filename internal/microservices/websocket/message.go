package websocket

import (
	"encoding/json"
	"log/slog"
	"time"

	pkgmodels "tapea/pkg/models"
)

// Message protocol definitions. The feed is server to client only.

type MessageType string

const (
	TypeSnapshot MessageType = "ranking.snapshot" // full leaderboard for one event
	TypeError    MessageType = "ranking.error"    // ranking could not be computed
)

type Message struct {
	Type      MessageType              `json:"type"`
	EventID   string                   `json:"event_id,omitempty"`
	Entries   []pkgmodels.RankingEntry `json:"entries,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

func NewSnapshot(resp *pkgmodels.RankingResponse) *Message {
	return &Message{
		Type:      TypeSnapshot,
		EventID:   resp.EventID,
		Entries:   resp.Entries,
		Timestamp: time.Now().UTC(),
	}
}

func NewErrorMessage(eventID, text string) *Message {
	return &Message{
		Type:      TypeError,
		EventID:   eventID,
		Error:     text,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON: marshal Message struct to JSON
func (m *Message) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		slog.Error("ws_message_marshal_failed", "error", err)
		return nil, err
	}
	return data, nil
}
