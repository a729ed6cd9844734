package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bluebird1313/reporder/internal/crm"
)

type CRMHandler struct {
	client *crm.Client
}

func NewCRMHandler(client *crm.Client) *CRMHandler {
	return &CRMHandler{client: client}
}

// GetStatus reports whether the CRM integration is configured and reachable.
func (h *CRMHandler) GetStatus(c *gin.Context) {
	configured := h.client.IsConfigured()
	status := gin.H{"configured": configured}
	if configured {
		status["connected"] = h.client.TestConnection(c.Request.Context())
	}
	c.JSON(http.StatusOK, status)
}

// GetStoreOpportunities lists CRM deal boxes mentioning the store.
func (h *CRMHandler) GetStoreOpportunities(c *gin.Context) {
	storeName := c.Query("store_name")
	if storeName == "" {
		respondError(c, http.StatusBadRequest, "store_name is required")
		return
	}

	boxes, err := h.client.GetStoreOpportunities(c.Request.Context(), storeName)
	if err != nil {
		respondCRMError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"opportunities": boxes,
		"count":         len(boxes),
	})
}

func (h *CRMHandler) GetRecentTasks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	tasks, err := h.client.GetRecentTasks(c.Request.Context(), limit)
	if err != nil {
		respondCRMError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *CRMHandler) CompleteTask(c *gin.Context) {
	task, err := h.client.CompleteTask(c.Request.Context(), c.Param("box"), c.Param("task"))
	if err != nil {
		respondCRMError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *CRMHandler) SearchContacts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, http.StatusBadRequest, "q is required")
		return
	}

	contacts, err := h.client.SearchContacts(c.Request.Context(), query)
	if err != nil {
		respondCRMError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

func respondCRMError(c *gin.Context, err error) {
	if errors.Is(err, crm.ErrNotConfigured) {
		respondError(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	respondError(c, http.StatusBadGateway, err.Error())
}
