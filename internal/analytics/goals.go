package analytics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bluebird1313/reporder/internal/domain"
)

// ErrZeroGoalAmount is returned when progress is requested against a goal
// with no positive target. Rejecting up front keeps a division by zero from
// ever surfacing as an infinite or NaN percentage.
var ErrZeroGoalAmount = errors.New("goal amount must be positive")

var hundred = decimal.NewFromInt(100)

var (
	onTrackThreshold        = decimal.NewFromInt(75)
	needsAttentionThreshold = decimal.NewFromInt(50)
)

// GoalProgress computes percentage-of-goal attained, the amount still needed,
// and a display status. The percentage is deliberately unclamped: exceeding
// 100 means the goal was beaten, which reps want to see.
func GoalProgress(goalAmount, actualSales decimal.Decimal) (domain.GoalProgressResult, error) {
	if goalAmount.Sign() <= 0 {
		return domain.GoalProgressResult{}, ErrZeroGoalAmount
	}

	percentage := actualSales.Div(goalAmount).Mul(hundred)

	remaining := goalAmount.Sub(actualSales)
	if remaining.Sign() < 0 {
		remaining = decimal.Zero
	}

	return domain.GoalProgressResult{
		Percentage: percentage,
		Remaining:  remaining,
		Status:     classifyGoal(percentage),
	}, nil
}

func classifyGoal(percentage decimal.Decimal) domain.GoalStatus {
	switch {
	case percentage.GreaterThanOrEqual(hundred):
		return domain.GoalStatusAchieved
	case percentage.GreaterThanOrEqual(onTrackThreshold):
		return domain.GoalStatusOnTrack
	case percentage.GreaterThanOrEqual(needsAttentionThreshold):
		return domain.GoalStatusNeedsAttention
	default:
		return domain.GoalStatusAtRisk
	}
}

// GoalOverdue reports whether a goal's month has fully elapsed without the
// goal being achieved.
func GoalOverdue(goalMonth time.Time, percentage decimal.Decimal, now time.Time) bool {
	return monthStart(goalMonth).Before(monthStart(now)) && percentage.LessThan(hundred)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
