package handler

import (
	"errors"
	"net/http"

	"boxoffice/internal/model"
	"boxoffice/internal/service"
	apperrors "boxoffice/pkg/app_errors"
	"boxoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.ReservationService
}

func NewEventHandler(service service.ReservationService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.GetEvents)
		router.GET("events/:id", h.GetEvent)
		router.POST("events", h.CreateEvent)
		router.GET("events/:id/metrics", h.GetEventMetrics)
	}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var eventReq model.CreateEventRequest

	if err := BindJson(c, &eventReq); err != nil {
		return
	}

	created, err := h.service.CreateEvent(c, eventReq)
	if err != nil {
		h.handleEventError(c, err, "CreateEvent")
		return
	}

	h.handleEventSuccess(c, created, http.StatusCreated)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.handleEventError(c, apperrors.ErrInvalidInput, "GetEvent")
		return
	}
	event, err := h.service.GetEvent(c, id)
	if err != nil {
		h.handleEventError(c, err, "GetEvent")
		return
	}

	h.handleEventSuccess(c, event, http.StatusOK)
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.service.ListEvents(c)
	if err != nil {
		h.handleEventError(c, err, "GetEvents")
		return
	}

	h.handleEventSuccess(c, events, http.StatusOK)
}

func (h *EventHandler) GetEventMetrics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.handleEventError(c, apperrors.ErrInvalidInput, "GetEventMetrics")
		return
	}
	m, err := h.service.EventMetrics(c, id)
	if err != nil {
		h.handleEventError(c, err, "GetEventMetrics")
		return
	}

	h.handleEventSuccess(c, m, http.StatusOK)
}

// Helper functions

func (h *EventHandler) handleEventError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *EventHandler) handleEventSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
