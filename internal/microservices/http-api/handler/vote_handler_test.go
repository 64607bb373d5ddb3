package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tapea/internal/microservices/http-api/service"
	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCastVote(t *testing.T) {
	mockVoteService := new(MockVoteService)
	handler := NewVoteHandler(mockVoteService)
	router := setupRouter()
	router.POST("/api/votes", asUser("u1"), handler.Cast)

	ok := pkgmodels.CastVoteRequest{TapaID: "t1", Stars: 4}
	dup := pkgmodels.CastVoteRequest{TapaID: "t2", Stars: 4}
	gone := pkgmodels.CastVoteRequest{TapaID: "t3", Stars: 4}
	slow := pkgmodels.CastVoteRequest{TapaID: "t4", Stars: 4}
	broken := pkgmodels.CastVoteRequest{TapaID: "t5", Stars: 4}

	mockVoteService.On("CastVote", "u1", ok).Return(&pkgmodels.CastVoteResponse{
		Vote: pkgmodels.Vote{ID: "v1", TapaID: "t1", Stars: 4}, VoteCount: 3, Celebrate: true,
	}, nil)
	mockVoteService.On("CastVote", "u1", dup).Return(nil, fmt.Errorf("create vote: %w", voting.ErrAlreadyVoted))
	mockVoteService.On("CastVote", "u1", gone).Return(nil, service.ErrTapaNotFound)
	mockVoteService.On("CastVote", "u1", slow).Return(nil, voting.ErrStoreTimeout)
	mockVoteService.On("CastVote", "u1", broken).Return(nil, errors.New("db exploded"))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"created", `{"tapa_id":"t1","stars":4}`, http.StatusCreated},
		{"duplicate", `{"tapa_id":"t2","stars":4}`, http.StatusConflict},
		{"unknown tapa", `{"tapa_id":"t3","stars":4}`, http.StatusNotFound},
		{"timeout", `{"tapa_id":"t4","stars":4}`, http.StatusGatewayTimeout},
		{"internal", `{"tapa_id":"t5","stars":4}`, http.StatusInternalServerError},
		{"stars out of range", `{"tapa_id":"t1","stars":6}`, http.StatusBadRequest},
		{"missing tapa", `{"stars":3}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/votes", tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := postJSON(router, "/api/votes", `{"tapa_id":"t1","stars":4}`)
	var resp pkgmodels.CastVoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Celebrate)
	assert.Equal(t, 3, resp.VoteCount)
}

func TestCastVote_Unauthenticated(t *testing.T) {
	mockVoteService := new(MockVoteService)
	handler := NewVoteHandler(mockVoteService)
	router := setupRouter()
	router.POST("/api/votes", handler.Cast)

	w := postJSON(router, "/api/votes", `{"tapa_id":"t1","stars":4}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockVoteService.AssertNotCalled(t, "CastVote", mock.Anything, mock.Anything)
}

func TestPassportHandler(t *testing.T) {
	mockVoteService := new(MockVoteService)
	handler := NewVoteHandler(mockVoteService)
	router := setupRouter()
	router.GET("/api/me/passport", asUser("u1"), handler.Passport)
	router.GET("/api/me/votes", asUser("u1"), handler.MyVotes)

	mockVoteService.On("Passport", "u1", "e1").Return(&pkgmodels.Passport{EventID: "e1", VoteCount: 2, Threshold: 3, Remaining: 1}, nil)
	mockVoteService.On("ListUserVotes", "u1").Return([]pkgmodels.Vote{{ID: "v1"}}, nil)

	req, _ := http.NewRequest("GET", "/api/me/passport?event_id=e1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var passport pkgmodels.Passport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &passport))
	assert.Equal(t, 1, passport.Remaining)

	req, _ = http.NewRequest("GET", "/api/me/votes", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}
