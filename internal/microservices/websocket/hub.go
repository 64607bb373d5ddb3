package websocket

// Central hub for the live ranking feed. Connections run their own pumps
// but room membership and recomputation happen on the hub goroutine only.

import (
	"context"
	"log/slog"
	"time"

	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

// RankingSource computes the leaderboard pushed to subscribers.
type RankingSource interface {
	Top(ctx context.Context, eventID string, limit int) (*pkgmodels.RankingResponse, error)
}

const computeTimeout = 5 * time.Second

type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	changed chan struct{}
	done    chan struct{}
	rooms   map[string]*Room
	source  RankingSource
	limit   int
	logger  *slog.Logger
}

func NewHub(source RankingSource, limit int, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		changed:    make(chan struct{}, 1),
		done:       make(chan struct{}),
		rooms:      make(map[string]*Room),
		source:     source,
		limit:      limit,
		logger:     logger,
	}
}

// VoteCommitted marks every ranking stale. Bursts collapse into one refresh.
func (h *Hub) VoteCommitted(v voting.Vote) {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

// Run processes registrations and refreshes until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for id, room := range h.rooms {
				room.CloseAll()
				delete(h.rooms, id)
			}
			return

		case c := <-h.Register:
			room := h.rooms[c.RoomID]
			if room == nil {
				room = NewRoom(c.RoomID)
				h.rooms[c.RoomID] = room
			}
			room.AddUser(c)
			// newcomers get the current board straight away
			if msg := h.snapshot(ctx, c.RoomID); msg != nil {
				select {
				case c.SendChannel <- msg:
				default:
				}
			}

		case c := <-h.Unregister:
			if room := h.rooms[c.RoomID]; room != nil {
				room.RemoveUser(c)
				if room.GetUserCount() == 0 {
					delete(h.rooms, c.RoomID)
				}
			}

		case <-h.changed:
			for id, room := range h.rooms {
				if msg := h.snapshot(ctx, id); msg != nil {
					room.Broadcast(msg)
				}
			}
		}
	}
}

// register hands c to the hub; false means the hub has stopped.
func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) snapshot(ctx context.Context, eventID string) []byte {
	ctx, cancel := context.WithTimeout(ctx, computeTimeout)
	defer cancel()

	var msg *Message
	resp, err := h.source.Top(ctx, eventID, h.limit)
	if err != nil {
		h.logger.Warn("ranking_feed_compute_failed", "event_id", eventID, "error", err)
		msg = NewErrorMessage(eventID, "ranking unavailable")
	} else {
		msg = NewSnapshot(resp)
	}

	data, err := msg.ToJSON()
	if err != nil {
		return nil
	}
	return data
}
