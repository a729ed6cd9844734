package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bluebird1313/reporder/internal/repository"
)

func respondError(c *gin.Context, statusCode int, message string) {
	log.Error().Str("path", c.Request.URL.Path).Int("status", statusCode).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}

// respondServiceError maps common service errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
