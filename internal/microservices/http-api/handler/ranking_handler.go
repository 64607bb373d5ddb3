package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tapea/internal/microservices/http-api/service"
	"tapea/internal/raffle"
)

// maxRankingLimit caps ?limit= so a request can't ask for the whole table.
const maxRankingLimit = 50

type RankingHandler struct {
	rankingService service.RankingService
	raffleService  service.RaffleService
}

func NewRankingHandler(rankingService service.RankingService, raffleService service.RaffleService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService, raffleService: raffleService}
}

// Ranking returns the leaderboard.
// GET /api/ranking?event_id=&limit=
func (h *RankingHandler) Ranking(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRankingLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 50"})
			return
		}
		limit = n
	}

	resp, err := h.rankingService.Top(c.Request.Context(), c.Query("event_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RaffleParticipants lists who qualifies for the draw. Admin only.
// GET /api/admin/raffle?min_votes=
func (h *RankingHandler) RaffleParticipants(c *gin.Context) {
	minVotes := raffle.Threshold
	if raw := c.Query("min_votes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_votes must be a positive integer"})
			return
		}
		minVotes = n
	}

	resp, err := h.raffleService.Participants(c.Request.Context(), minVotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
