package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tapea/internal/microservices/http-api/service"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// RegisterRoutes registers the public event routes
func (h *EventHandler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/events")
	{
		events.GET("", h.List)
		events.GET("/active", h.Active) // registered before /:slug
		events.GET("/:slug", h.BySlug)
	}
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) Active(c *gin.Context) {
	e, err := h.eventService.Active(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EventHandler) BySlug(c *gin.Context) {
	e, err := h.eventService.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}
