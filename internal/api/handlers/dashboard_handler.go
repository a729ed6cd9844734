package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bluebird1313/reporder/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetMonthlyComparison(c *gin.Context) {
	comparison, err := h.service.GetMonthlyComparison(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

func (h *DashboardHandler) GetTopCustomers(c *gin.Context) {
	customers, err := h.service.GetTopCustomers(c.Request.Context(), limitQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *DashboardHandler) GetSalesRepPerformance(c *gin.Context) {
	reps, err := h.service.GetSalesRepPerformance(c.Request.Context(), limitQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reps": reps})
}

func (h *DashboardHandler) GetRecentOrders(c *gin.Context) {
	orders, err := h.service.GetRecentOrders(c.Request.Context(), limitQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetInventorySummaries returns each store's stocking position with its
// derived inventory health percentage.
func (h *DashboardHandler) GetInventorySummaries(c *gin.Context) {
	summaries, err := h.service.GetInventorySummaries(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": summaries,
		"count":  len(summaries),
	})
}

func (h *DashboardHandler) GetStoreInventorySummary(c *gin.Context) {
	summary, err := h.service.GetStoreInventorySummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func limitQuery(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		return 0
	}
	return limit
}
