package handler

import (
	"net/http"

	"boxoffice/internal/service"
	"boxoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MetricsHandler struct {
	service service.ReservationService
}

func NewMetricsHandler(service service.ReservationService) *MetricsHandler {
	return &MetricsHandler{service: service}
}

func (h *MetricsHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("metrics", h.GetMetrics)
	}
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	m, err := h.service.SystemMetrics(c)
	if err != nil {
		logger.WithComponent("handler").Error("Unexpected error",
			zap.String("operation", "GetMetrics"), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, m)
}
