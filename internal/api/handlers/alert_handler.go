package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bluebird1313/reporder/internal/service"
)

type AlertHandler struct {
	service *service.AlertService
}

func NewAlertHandler(service *service.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

// GetAlerts lists active stock alerts, out-of-stock first, newest within each
// severity. Pass store_id to narrow to one store.
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.service.ListActiveAlerts(c.Request.Context(), c.Query("store_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// ResolveAlert manually closes one alert.
func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	if err := h.service.ResolveAlert(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resolved": true})
}
