package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	pkgmodels "tapea/pkg/models"
)

// ranking_feed.go = follows the server's live ranking over WebSocket.

// FeedMessage is one push from /ws/ranking.
type FeedMessage struct {
	Type      string                   `json:"type"`
	EventID   string                   `json:"event_id,omitempty"`
	Entries   []pkgmodels.RankingEntry `json:"entries,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

// FeedURL turns the API base URL into the ranking feed URL.
func (c *HTTPClient) FeedURL(eventID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/ranking"
	if eventID != "" {
		u.RawQuery = url.Values{"event_id": {eventID}}.Encode()
	}
	return u.String(), nil
}

// WatchRanking calls onMessage for every push until ctx is done or the
// server closes the feed.
func (c *HTTPClient) WatchRanking(ctx context.Context, eventID string, onMessage func(FeedMessage)) error {
	feedURL, err := c.FeedURL(eventID)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, feedURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	// unblock ReadJSON when the user interrupts
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	for {
		var msg FeedMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("feed closed: %w", err)
		}
		onMessage(msg)
	}
}
