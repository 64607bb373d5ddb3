package websocket

import (
	"log/slog"
	"sync"
)

// Room = every client following the ranking of one event
type Room struct {
	ID      string
	Clients map[string]*Client // map[clientID] -> *Client
	mu      sync.RWMutex
}

func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Clients: make(map[string]*Client),
	}
}

func (r *Room) AddUser(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Clients[c.ID] != nil {
		slog.Warn("ws_client_already_in_room", "room_id", r.ID, "client_id", c.ID)
		return
	}
	r.Clients[c.ID] = c
	slog.Debug("ws_client_joined", "room_id", r.ID, "client_id", c.ID)
}

// RemoveUser closes the client's send channel. Removing twice is a no-op.
func (r *Room) RemoveUser(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(c)
}

func (r *Room) removeLocked(c *Client) {
	if r.Clients[c.ID] == nil {
		return
	}
	delete(r.Clients, c.ID)
	close(c.SendChannel)
	slog.Debug("ws_client_left", "room_id", r.ID, "client_id", c.ID)
}

// Broadcast queues message for every client. A client whose buffer is full
// is dropped rather than allowed to stall the others.
func (r *Room) Broadcast(message []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Clients {
		select {
		case c.SendChannel <- message:
		default:
			slog.Warn("ws_client_too_slow", "room_id", r.ID, "client_id", c.ID)
			r.removeLocked(c)
		}
	}
}

func (r *Room) GetUserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Clients)
}

// CloseAll removes every client.
func (r *Room) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Clients {
		r.removeLocked(c)
	}
}
