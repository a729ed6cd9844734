package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bluebird1313/reporder/internal/analytics"
	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/repository"
)

var (
	ErrInvalidGoalType   = errors.New("goal type must be AO or Prebook")
	ErrInvalidGoalAmount = errors.New("goal amount must be positive")
)

// GoalService manages rep goals and derives their attainment from recorded
// sales metrics. Actuals are recomputed on every read.
type GoalService struct {
	goals  repository.GoalRepository
	sales  repository.SalesHistoryRepository
	stores repository.StoreRepository
	now    func() time.Time
}

func NewGoalService(goals repository.GoalRepository, sales repository.SalesHistoryRepository, stores repository.StoreRepository) *GoalService {
	return &GoalService{
		goals:  goals,
		sales:  sales,
		stores: stores,
		now:    time.Now,
	}
}

func (s *GoalService) CreateGoal(ctx context.Context, goal *domain.RepGoal) error {
	if err := s.validateGoal(ctx, goal); err != nil {
		return err
	}

	if err := s.goals.CreateGoal(ctx, goal); err != nil {
		return err
	}

	log.Info().
		Str("goal_id", goal.ID).
		Str("store_id", goal.StoreID).
		Str("goal_type", string(goal.GoalType)).
		Msg("rep goal created")
	return nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, goal *domain.RepGoal) error {
	if err := s.validateGoal(ctx, goal); err != nil {
		return err
	}
	return s.goals.UpdateGoal(ctx, goal)
}

func (s *GoalService) validateGoal(ctx context.Context, goal *domain.RepGoal) error {
	if !goal.GoalType.Valid() {
		return ErrInvalidGoalType
	}
	if goal.GoalAmount.Sign() <= 0 {
		return ErrInvalidGoalAmount
	}
	if _, err := s.stores.GetStore(ctx, goal.StoreID); err != nil {
		return fmt.Errorf("store %s: %w", goal.StoreID, err)
	}

	// Goals are monthly; pin whatever date the caller sent to the first of
	// its month so the actuals window always lines up.
	goal.GoalMonth = time.Date(goal.GoalMonth.Year(), goal.GoalMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	return nil
}

// GetGoalProgress loads one goal and computes its attainment.
func (s *GoalService) GetGoalProgress(ctx context.Context, goalID string) (*domain.GoalProgress, error) {
	goal, err := s.goals.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	return s.progressFor(ctx, goal)
}

// ListGoalProgress returns a rep's goals with attainment, most recent month
// first, going back the given number of months from now.
func (s *GoalService) ListGoalProgress(ctx context.Context, repID string, monthsBack int) ([]domain.GoalProgress, error) {
	if monthsBack <= 0 {
		monthsBack = 12
	}

	now := s.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -monthsBack, 0)

	goals, err := s.goals.ListGoalsByRep(ctx, repID, since)
	if err != nil {
		return nil, err
	}

	progress := make([]domain.GoalProgress, 0, len(goals))
	for i := range goals {
		p, err := s.progressFor(ctx, &goals[i])
		if err != nil {
			return nil, err
		}
		progress = append(progress, *p)
	}

	return progress, nil
}

func (s *GoalService) progressFor(ctx context.Context, goal *domain.RepGoal) (*domain.GoalProgress, error) {
	actual, err := s.sales.GetActualSales(ctx, goal.StoreID, goal.Brand, goal.GoalType, goal.GoalMonth)
	if err != nil {
		return nil, fmt.Errorf("actuals for goal %s: %w", goal.ID, err)
	}

	result, err := analytics.GoalProgress(goal.GoalAmount, actual)
	if err != nil {
		return nil, fmt.Errorf("progress for goal %s: %w", goal.ID, err)
	}

	return &domain.GoalProgress{
		RepGoal:     *goal,
		ActualSales: actual,
		Progress:    result,
		IsOverdue:   analytics.GoalOverdue(goal.GoalMonth, result.Percentage, s.now()),
	}, nil
}
