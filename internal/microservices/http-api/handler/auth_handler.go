package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"tapea/internal/microservices/http-api/dto"
	"tapea/internal/microservices/http-api/models"
	"tapea/internal/microservices/http-api/service"
	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

type AuthHandler struct {
	authService    service.AuthService
	pendingService service.PendingService
}

func NewAuthHandler(authService service.AuthService, pendingService service.PendingService) *AuthHandler {
	return &AuthHandler{authService: authService, pendingService: pendingService}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/google/start", h.GoogleStart)
	router.GET("/google/callback", h.GoogleCallback)
	router.POST("/refresh", h.RefreshToken)
	router.POST("/logout", h.Logout)
}

// GoogleStart sends the browser to Google. Clients asking for JSON get the URL instead.
// GET /auth/google/start?redirect=/votar/<id>&device_id=<id>
func (h *AuthHandler) GoogleStart(c *gin.Context) {
	var q dto.GoogleStartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := safeRedirect(q.Redirect)
	authURL, err := h.authService.BeginGoogleSignIn(c.Request.Context(), target, q.DeviceID)
	if err != nil {
		respondError(c, err)
		return
	}

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, pkgmodels.SignInStart{URL: authURL, DeviceID: q.DeviceID})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback finishes sign-in, commits any vote staged by the device and
// hands the tokens back.
// GET /auth/google/callback?state=..&code=..
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var q dto.GoogleCallbackQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.Error != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in cancelled: " + q.Error})
		return
	}

	res, err := h.authService.CompleteGoogleSignIn(c.Request.Context(), q.State, q.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	var pendingState *dto.PendingState
	if res.DeviceID != "" && h.pendingService != nil {
		rec, err := h.pendingService.Reconcile(c.Request.Context(), res.DeviceID, res.User.ID)
		if err != nil {
			// sign-in still succeeded, the slot stays for the next callback
			slog.Warn("pending_reconcile_failed", "device_id", res.DeviceID, "user_id", res.User.ID, "error", err)
		} else if rec.Status != voting.NothingPending {
			pendingState = &dto.PendingState{Status: rec.Status.String()}
			if rec.Pending != nil {
				pendingState.TapaID = rec.Pending.TapaID
			}
		}
	}

	if res.RedirectTarget != "" {
		c.Redirect(http.StatusFound, res.RedirectTarget+"#"+tokenFragment(res.Tokens, pendingState))
		return
	}

	c.JSON(http.StatusOK, dto.CallbackResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		TokenType:    res.Tokens.TokenType,
		ExpiresIn:    res.Tokens.ExpiresIn,
		UserID:       res.Tokens.UserID,
		Email:        res.Tokens.Email,
		PendingVote:  pendingState,
	})
}

// RefreshToken rotates both tokens.
// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req pkgmodels.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout revokes the refresh token.
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req pkgmodels.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.RevokeToken(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Role returns the caller's role.
// GET /api/me/role
func (h *AuthHandler) Role(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	role, err := h.authService.GetRole(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkgmodels.RoleResponse{
		UserID:  userID,
		Role:    role,
		IsAdmin: role == models.RoleAdmin,
	})
}

// safeRedirect only allows same-site paths.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return ""
	}
	return target
}

func tokenFragment(t pkgmodels.TokenPair, p *dto.PendingState) string {
	v := url.Values{}
	v.Set("access_token", t.AccessToken)
	v.Set("refresh_token", t.RefreshToken)
	v.Set("token_type", t.TokenType)
	if p != nil {
		v.Set("pending_vote", p.Status)
	}
	return v.Encode()
}
