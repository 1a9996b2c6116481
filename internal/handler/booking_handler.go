package handler

import (
	"errors"
	"net/http"

	"boxoffice/internal/model"
	"boxoffice/internal/service"
	apperrors "boxoffice/pkg/app_errors"
	"boxoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service service.ReservationService
}

func NewBookingHandler(service service.ReservationService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("book", h.ConfirmBooking)
	}
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var bookReq model.ConfirmBookingRequest

	if err := BindJson(c, &bookReq); err != nil {
		return
	}

	booking, err := h.service.ConfirmBooking(c, bookReq.HoldID, bookReq.PaymentToken)
	if err != nil {
		h.handleBookingError(c, err, "ConfirmBooking")
		return
	}

	resp := model.BookingResponse{
		BookingID: booking.BookingID,
		EventID:   booking.EventID,
		HoldID:    booking.HoldID,
		SeatCount: booking.SeatCount,
		CreatedAt: booking.CreatedAt,
	}
	c.JSON(http.StatusCreated, resp)
}

// Helper functions

func (h *BookingHandler) handleBookingError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrHoldExpired):
		log.Warn("Hold expired")
		c.JSON(http.StatusGone, gin.H{
			"error": "Hold expired",
		})
	case errors.Is(err, apperrors.ErrHoldNotActive):
		log.Warn("Hold not active")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Hold not active",
		})
	case errors.Is(err, apperrors.ErrHoldNotFound):
		log.Warn("Hold not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Hold not found",
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
