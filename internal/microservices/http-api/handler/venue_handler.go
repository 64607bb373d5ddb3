package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tapea/internal/microservices/http-api/service"
	pkgmodels "tapea/pkg/models"
)

// DeviceHeader carries the anonymous device id of a QR visitor.
const DeviceHeader = "X-Device-ID"

// SignInStarter is the slice of AuthService the QR flow needs.
type SignInStarter interface {
	BeginGoogleSignIn(ctx context.Context, redirectTarget, deviceID string) (string, error)
}

type VenueHandler struct {
	venueService   service.VenueService
	pendingService service.PendingService
	signIn         SignInStarter
}

func NewVenueHandler(venueService service.VenueService, pendingService service.PendingService, signIn SignInStarter) *VenueHandler {
	return &VenueHandler{venueService: venueService, pendingService: pendingService, signIn: signIn}
}

// RegisterRoutes registers the public venue routes
func (h *VenueHandler) RegisterRoutes(router *gin.RouterGroup) {
	venues := router.Group("/venues")
	{
		venues.GET("", h.List)
		venues.GET("/:id", h.Get)
		venues.GET("/:id/qr", h.QR)
	}
}

// GET /api/venues?event_id=
func (h *VenueHandler) List(c *gin.Context) {
	venues, err := h.venueService.List(c.Request.Context(), c.Query("event_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venues": venues})
}

// GET /api/venues/:id
func (h *VenueHandler) Get(c *gin.Context) {
	venue, err := h.venueService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venue)
}

// GET /api/venues/:id/qr
func (h *VenueHandler) QR(c *gin.Context) {
	qr, err := h.venueService.QRURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qr)
}

// VoteEntry is where a scanned table card lands: the venue, its tapas and
// the star tapa to preselect.
// GET /votar/:venueId
func (h *VenueHandler) VoteEntry(c *gin.Context) {
	venue, err := h.venueService.Get(c.Request.Context(), c.Param("venueId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venue":            venue,
		"preselected_tapa": venue.PreselectedTapa(),
		"pending_endpoint": "/votar/" + venue.ID + "/pending",
	})
}

// StagePending keeps an anonymous visitor's vote and returns where to sign in.
// POST /votar/:venueId/pending
func (h *VenueHandler) StagePending(c *gin.Context) {
	var req pkgmodels.StagePendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venueID := c.Param("venueId")
	deviceID, err := h.pendingService.Stage(c.Request.Context(), c.GetHeader(DeviceHeader), venueID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	signInURL, err := h.signIn.BeginGoogleSignIn(c.Request.Context(), "/votar/"+venueID, deviceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header(DeviceHeader, deviceID)
	c.JSON(http.StatusAccepted, pkgmodels.StagePendingResponse{DeviceID: deviceID, SignInURL: signInURL})
}
