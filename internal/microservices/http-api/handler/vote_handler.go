package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tapea/internal/microservices/http-api/service"
	pkgmodels "tapea/pkg/models"
)

type VoteHandler struct {
	voteService service.VoteService
}

func NewVoteHandler(voteService service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// Cast records one vote for the caller.
// POST /api/votes
func (h *VoteHandler) Cast(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req pkgmodels.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.voteService.CastVote(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// MyVotes lists the caller's votes, newest first.
// GET /api/me/votes
func (h *VoteHandler) MyVotes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	votes, err := h.voteService.ListUserVotes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"votes": votes, "count": len(votes)})
}

// GET /api/me/passport?event_id=
func (h *VoteHandler) Passport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	passport, err := h.voteService.Passport(c.Request.Context(), userID, c.Query("event_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, passport)
}
