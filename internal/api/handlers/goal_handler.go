package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/bluebird1313/reporder/internal/analytics"
	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/service"
)

type GoalHandler struct {
	service *service.GoalService
}

func NewGoalHandler(service *service.GoalService) *GoalHandler {
	return &GoalHandler{service: service}
}

type goalRequest struct {
	RepID      string          `json:"rep_id" binding:"required"`
	StoreID    string          `json:"store_id" binding:"required"`
	Brand      string          `json:"brand" binding:"required"`
	GoalType   string          `json:"goal_type" binding:"required"`
	GoalAmount decimal.Decimal `json:"goal_amount" binding:"required"`
	GoalMonth  string          `json:"goal_month" binding:"required"`
}

func (r goalRequest) toGoal() (*domain.RepGoal, error) {
	month, err := time.Parse("2006-01", r.GoalMonth)
	if err != nil {
		return nil, errors.New("goal_month must be formatted YYYY-MM")
	}

	return &domain.RepGoal{
		RepID:      r.RepID,
		StoreID:    r.StoreID,
		Brand:      r.Brand,
		GoalType:   domain.GoalType(r.GoalType),
		GoalAmount: r.GoalAmount,
		GoalMonth:  month,
	}, nil
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := req.toGoal()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.CreateGoal(c.Request.Context(), goal); err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, goal)
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := req.toGoal()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	goal.ID = c.Param("id")

	if err := h.service.UpdateGoal(c.Request.Context(), goal); err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// GetGoalProgress returns one goal with computed attainment.
func (h *GoalHandler) GetGoalProgress(c *gin.Context) {
	progress, err := h.service.GetGoalProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// ListGoalProgress returns a rep's goals with attainment, newest month first.
func (h *GoalHandler) ListGoalProgress(c *gin.Context) {
	monthsBack := 0
	if raw := c.Query("months_back"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "months_back must be a positive integer")
			return
		}
		monthsBack = parsed
	}

	progress, err := h.service.ListGoalProgress(c.Request.Context(), c.Param("rep_id"), monthsBack)
	if err != nil {
		respondProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"goals": progress,
		"count": len(progress),
	})
}

func respondGoalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidGoalType),
		errors.Is(err, service.ErrInvalidGoalAmount):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondServiceError(c, err)
	}
}

// respondProgressError covers reads of goals stored before amount validation
// existed; a zero amount is unprocessable rather than a server fault.
func respondProgressError(c *gin.Context, err error) {
	if errors.Is(err, analytics.ErrZeroGoalAmount) {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondServiceError(c, err)
}
