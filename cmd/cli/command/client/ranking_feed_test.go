package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgmodels "tapea/pkg/models"
)

func TestFeedURL(t *testing.T) {
	u, err := NewHTTPClient("https://api.tapea.app/").FeedURL("e1")
	require.NoError(t, err)
	assert.Equal(t, "wss://api.tapea.app/ws/ranking?event_id=e1", u)

	u, err = NewHTTPClient("http://localhost:8080").FeedURL("")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws/ranking", u)
}

func TestWatchRanking_DeliversUntilClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "e1", r.URL.Query().Get("event_id"))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		for i := 1; i <= 2; i++ {
			_ = conn.WriteJSON(FeedMessage{
				Type:    "ranking.snapshot",
				EventID: "e1",
				Entries: []pkgmodels.RankingEntry{{TapaID: "t1", VoteCount: i}},
			})
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	api := NewHTTPClient(srv.URL)
	var got []FeedMessage
	err := api.WatchRanking(context.Background(), "e1", func(m FeedMessage) { got = append(got, m) })

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[1].Entries[0].VoteCount)
	assert.True(t, strings.HasPrefix(got[0].Type, "ranking."))
}
