package domain

// AlertType classifies a stock alert condition
type AlertType string

const (
	AlertTypeLow        AlertType = "low"
	AlertTypeOutOfStock AlertType = "out_of_stock"
)

// Priority orders alerts for display: out_of_stock outranks low.
func (a AlertType) Priority() int {
	switch a {
	case AlertTypeOutOfStock:
		return 0
	case AlertTypeLow:
		return 1
	default:
		return 2
	}
}

// GoalType distinguishes at-once orders from prebook commitments
type GoalType string

const (
	GoalTypeAO      GoalType = "AO"
	GoalTypePrebook GoalType = "Prebook"
)

// Valid reports whether the goal type is one of the supported values
func (g GoalType) Valid() bool {
	return g == GoalTypeAO || g == GoalTypePrebook
}

// GoalStatus classifies goal attainment for display and alerting
type GoalStatus string

const (
	GoalStatusAchieved       GoalStatus = "achieved"
	GoalStatusOnTrack        GoalStatus = "on_track"
	GoalStatusNeedsAttention GoalStatus = "needs_attention"
	GoalStatusAtRisk         GoalStatus = "at_risk"
)

// StoreStatus classifies a store by order recency
type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "Active"
	StoreStatusInactive StoreStatus = "Inactive"
	StoreStatusNew      StoreStatus = "New"
)
