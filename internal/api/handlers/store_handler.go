package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bluebird1313/reporder/internal/service"
)

type StoreHandler struct {
	service *service.StoreService
}

func NewStoreHandler(service *service.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

// GetStores returns every store's sales rollup with derived health score and
// status.
func (h *StoreHandler) GetStores(c *gin.Context) {
	stores, err := h.service.ListStoreSales(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

func (h *StoreHandler) GetStore(c *gin.Context) {
	store, err := h.service.GetStoreSales(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, store)
}
