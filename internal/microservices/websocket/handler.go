package websocket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// NewUpgrader checks the Origin header against the same allow-list the CORS
// middleware uses. Requests without an Origin (non-browser clients) pass.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowAll {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// RankingFeedHandler upgrades GET /ws/ranking?event_id= to a live feed.
func RankingFeedHandler(hub *Hub, upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error
			return
		}

		client := NewClient(uuid.NewString(), c.Query("event_id"), conn, hub)
		if !hub.register(client) {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
