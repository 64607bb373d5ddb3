package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tapea/internal/microservices/http-api/service"
	"tapea/internal/pending"
	"tapea/internal/voting"
)

// respondError maps service errors onto status codes. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "internal server error"

	switch {
	case errors.Is(err, voting.ErrAlreadyVoted):
		status, msg = http.StatusConflict, "you already voted for this tapa"
	case errors.Is(err, service.ErrTapaNotFound),
		errors.Is(err, service.ErrVenueNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrTapaNotInVenue),
		errors.Is(err, voting.ErrInvalidStars),
		errors.Is(err, pending.ErrInvalidVote):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken),
		errors.Is(err, service.ErrInvalidState):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrOAuthDisabled):
		status, msg = http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, voting.ErrStoreTimeout):
		status, msg = http.StatusGatewayTimeout, "vote store timed out, try again"
	default:
		slog.Error("request_failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(status, gin.H{"error": msg})
}

// currentUser reads the id AuthMiddleware put in the context.
func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID, true
}
