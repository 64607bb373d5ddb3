package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

func TestVoteStore_CreateVote(t *testing.T) {
	var got pkgmodels.CastVoteRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/votes", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(pkgmodels.CastVoteResponse{Vote: pkgmodels.Vote{
			ID: "vote-1", UserID: "u1", TapaID: got.TapaID, Stars: got.Stars, ValidatedLocation: true,
			CreatedAt: time.Date(2026, 2, 3, 20, 0, 0, 0, time.UTC),
		}})
	}))
	defer srv.Close()

	api := NewHTTPClient(srv.URL)
	api.SetToken("tok")
	store := NewVoteStore(api)
	store.Fix = func() (float64, float64, bool) { return 37.39, -5.99, true }

	v, err := store.CreateVote(context.Background(), "u1", "t1", 4, true)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "vote-1", v.ID)
	assert.True(t, v.ValidatedLocation)
	require.NotNil(t, got.Latitude)
	assert.InDelta(t, 37.39, *got.Latitude, 1e-9)
}

func TestVoteStore_NoFixWhenNotValidated(t *testing.T) {
	var got pkgmodels.CastVoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(pkgmodels.CastVoteResponse{})
	}))
	defer srv.Close()

	store := NewVoteStore(NewHTTPClient(srv.URL))
	store.Fix = func() (float64, float64, bool) { return 1, 1, true }

	_, err := store.CreateVote(context.Background(), "u1", "t1", 4, false)
	require.NoError(t, err)
	assert.Nil(t, got.Latitude)
}

func TestVoteStore_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		msg    string
		want   error
	}{
		{"conflict", http.StatusConflict, "nope", voting.ErrAlreadyVoted},
		{"unauthorized", http.StatusUnauthorized, "nope", voting.ErrNotAuthenticated},
		{"stars domain", http.StatusBadRequest, "stars must be between 1 and 5", voting.ErrInvalidStars},
		{"stars binding", http.StatusBadRequest, "Key: 'CastVoteRequest.Stars' Error:Field validation for 'Stars' failed on the 'max' tag", voting.ErrInvalidStars},
		{"missing tapa", http.StatusBadRequest, "Key: 'CastVoteRequest.TapaID' Error:Field validation for 'TapaID' failed on the 'required' tag", ErrInvalidRequest},
		{"timeout", http.StatusGatewayTimeout, "nope", voting.ErrStoreTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(pkgmodels.ErrorResponse{Error: tt.msg})
			}))
			defer srv.Close()

			_, err := NewVoteStore(NewHTTPClient(srv.URL)).CreateVote(context.Background(), "u1", "t1", 3, false)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status, StatusOf(err))
		})
	}
}

func TestVoteStore_BadRequestIsNotAlwaysStars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(pkgmodels.ErrorResponse{Error: "tapa does not belong to this venue"})
	}))
	defer srv.Close()

	_, err := NewVoteStore(NewHTTPClient(srv.URL)).CreateVote(context.Background(), "u1", "t1", 3, false)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.NotErrorIs(t, err, voting.ErrInvalidStars)
}

func TestVoteStore_ListVotesByUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/me/votes", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"votes": []pkgmodels.Vote{{ID: "a", TapaID: "t1", Stars: 5}, {ID: "b", TapaID: "t2", Stars: 3}},
			"count": 2,
		})
	}))
	defer srv.Close()

	votes, err := NewVoteStore(NewHTTPClient(srv.URL)).ListVotesByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.Equal(t, "t2", votes[1].TapaID)
}

func TestVoteStore_ListByTapaNotExposed(t *testing.T) {
	_, err := NewVoteStore(NewHTTPClient("http://unused")).ListVotesByTapaIDs(context.Background(), []string{"t1"})
	assert.ErrorIs(t, err, ErrNotExposed)
}

func TestHTTPClient_RankingQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ranking", r.URL.Path)
		assert.Equal(t, "e1", r.URL.Query().Get("event_id"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(pkgmodels.RankingResponse{EventID: "e1", Entries: []pkgmodels.RankingEntry{{TapaID: "t1", AvgStars: 4.5, VoteCount: 2}}})
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL+"/").Ranking(context.Background(), "e1", 10)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 4.5, resp.Entries[0].AvgStars)
}
