package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// Individual subscriber connection. RoomID is the event id ("" = all venues).

const ( // ping pong(2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // send pings before pong wait expires
	MaxMessageSize = 512                 // maximum message size allowed from peer
	SendBuffer     = 8                   // queued snapshots before a client counts as slow
)

type Client struct {
	ID          string          // unique connection id
	RoomID      string          // event id the client follows
	Conn        *websocket.Conn // WebSocket connection
	SendChannel chan []byte     // outbound snapshots, closed by the room
	Hub         *Hub
}

func NewClient(id, roomID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:          id,
		RoomID:      roomID,
		Conn:        conn,
		SendChannel: make(chan []byte, SendBuffer),
		Hub:         hub,
	}
}

// ReadPump only services control frames; inbound data is ignored. It
// unregisters the client when the peer goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("ws_read_failed", "client_id", c.ID, "error", err)
			}
			return
		}
	}
}

// WritePump sends queued snapshots, one JSON document per frame, and pings
// the peer on a timer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.SendChannel:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
