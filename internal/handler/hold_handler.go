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

type HoldHandler struct {
	service service.ReservationService
}

func NewHoldHandler(service service.ReservationService) *HoldHandler {
	return &HoldHandler{service: service}
}

func (h *HoldHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("holds", h.CreateHold)
		router.GET("holds/:id", h.GetHold)
		router.DELETE("holds/:id", h.CancelHold)
	}
}

func (h *HoldHandler) CreateHold(c *gin.Context) {
	var holdReq model.CreateHoldRequest

	if err := BindJson(c, &holdReq); err != nil {
		return
	}

	created, err := h.service.CreateHold(c, holdReq)
	if err != nil {
		h.handleHoldError(c, err, "CreateHold")
		return
	}

	h.handleHoldSuccess(c, model.NewHoldResponse(created), http.StatusCreated)
}

func (h *HoldHandler) GetHold(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.handleHoldError(c, apperrors.ErrInvalidInput, "GetHold")
		return
	}
	hold, err := h.service.GetHold(c, id)
	if err != nil {
		h.handleHoldError(c, err, "GetHold")
		return
	}

	h.handleHoldSuccess(c, model.NewHoldResponse(hold), http.StatusOK)
}

func (h *HoldHandler) CancelHold(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.handleHoldError(c, apperrors.ErrInvalidInput, "CancelHold")
		return
	}
	if err := h.service.CancelHold(c, id); err != nil {
		h.handleHoldError(c, err, "CancelHold")
		return
	}

	h.handleHoldSuccess(c, nil, http.StatusNoContent)
}

// Helper functions

func (h *HoldHandler) handleHoldError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInsufficientSeats):
		log.Warn("Insufficient seats")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Insufficient seats",
		})
	case errors.Is(err, apperrors.ErrHoldNotActive):
		log.Warn("Hold not active")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Hold not active",
		})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
	case errors.Is(err, apperrors.ErrHoldNotFound):
		log.Warn("Hold not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Hold not found",
		})
	case errors.Is(err, apperrors.ErrInvalidTTL):
		log.Warn("Invalid TTL")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "TTL out of allowed range",
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

func (h *HoldHandler) handleHoldSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
