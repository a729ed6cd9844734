package analytics

import (
	"time"

	"github.com/bluebird1313/reporder/internal/domain"
)

const healthBaseScore = 50

// HealthScore rates a store's sales health on a 0-100 scale from its order
// aggregates. Additive bands on top of a base of 50: lifetime revenue,
// 30-day activity, 90-day consistency, then a recency penalty. A store that
// has never ordered takes a flat -30 instead of the recency bands.
//
// Cutoffs are strict greater-than comparisons. asOf is injected so the
// recency math stays deterministic.
func HealthScore(in domain.StoreHealthInput, asOf time.Time) int {
	score := healthBaseScore

	switch {
	case in.TotalRevenue > 100000:
		score += 30
	case in.TotalRevenue > 50000:
		score += 20
	case in.TotalRevenue > 10000:
		score += 10
	}

	switch {
	case in.OrdersLast30Days > 5:
		score += 30
	case in.OrdersLast30Days > 2:
		score += 20
	case in.OrdersLast30Days > 0:
		score += 10
	}

	switch {
	case in.OrdersLast90Days > 10:
		score += 20
	case in.OrdersLast90Days > 5:
		score += 15
	case in.OrdersLast90Days > 0:
		score += 10
	}

	if in.LastOrderDate == nil {
		score -= 30
	} else {
		daysSinceLastOrder := asOf.Sub(*in.LastOrderDate).Hours() / 24
		switch {
		case daysSinceLastOrder > 90:
			score -= 20
		case daysSinceLastOrder > 60:
			score -= 10
		case daysSinceLastOrder > 30:
			score -= 5
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// StoreStatus classifies a store by order recency: Active within the last
// 90 days, Inactive beyond that, New when it has never ordered.
func StoreStatus(lastOrderDate *time.Time, asOf time.Time) domain.StoreStatus {
	if lastOrderDate == nil {
		return domain.StoreStatusNew
	}
	if !lastOrderDate.Before(asOf.AddDate(0, 0, -90)) {
		return domain.StoreStatusActive
	}
	return domain.StoreStatusInactive
}
