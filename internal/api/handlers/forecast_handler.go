package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// GetForecast returns predicted daily revenue and units for the requested
// scope. Both store_id and brand are optional filters.
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	filter := domain.ForecastFilter{
		StoreID: c.Query("store_id"),
		Brand:   c.Query("brand"),
	}

	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			respondError(c, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		filter.Horizon = days
	}

	points, err := h.service.GetForecast(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"forecast": points,
		"days":     len(points),
	})
}
