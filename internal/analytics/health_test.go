package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bluebird1313/reporder/internal/domain"
)

func daysAgo(asOf time.Time, days int) *time.Time {
	t := asOf.AddDate(0, 0, -days)
	return &t
}

func TestHealthScoreHighPerformerClampsAt100(t *testing.T) {
	asOf := day("2024-04-01")

	// 50 + 30 + 30 + 20 - 0 = 130, clamped
	score := HealthScore(domain.StoreHealthInput{
		TotalRevenue:     150000,
		OrdersLast30Days: 8,
		OrdersLast90Days: 15,
		LastOrderDate:    daysAgo(asOf, 5),
	}, asOf)

	assert.Equal(t, 100, score)
}

func TestHealthScoreNeverOrdered(t *testing.T) {
	// 50 + 0 + 0 + 0 - 30 = 20
	score := HealthScore(domain.StoreHealthInput{
		TotalRevenue:     5000,
		OrdersLast30Days: 0,
		OrdersLast90Days: 0,
		LastOrderDate:    nil,
	}, day("2024-04-01"))

	assert.Equal(t, 20, score)
}

func TestHealthScoreBands(t *testing.T) {
	asOf := day("2024-04-01")

	tests := []struct {
		name string
		in   domain.StoreHealthInput
		want int
	}{
		{
			name: "revenue exactly 100000 stays in middle band",
			in: domain.StoreHealthInput{
				TotalRevenue:  100000,
				LastOrderDate: daysAgo(asOf, 1),
			},
			want: 50 + 20,
		},
		{
			name: "revenue just over 100000 takes top band",
			in: domain.StoreHealthInput{
				TotalRevenue:  100001,
				LastOrderDate: daysAgo(asOf, 1),
			},
			want: 50 + 30,
		},
		{
			name: "single recent order",
			in: domain.StoreHealthInput{
				OrdersLast30Days: 1,
				OrdersLast90Days: 1,
				LastOrderDate:    daysAgo(asOf, 10),
			},
			want: 50 + 10 + 10,
		},
		{
			name: "orders at band edges use strict comparison",
			in: domain.StoreHealthInput{
				OrdersLast30Days: 5,
				OrdersLast90Days: 10,
				LastOrderDate:    daysAgo(asOf, 1),
			},
			want: 50 + 20 + 15,
		},
		{
			name: "stale store takes full recency penalty",
			in: domain.StoreHealthInput{
				TotalRevenue:     20000,
				OrdersLast90Days: 2,
				LastOrderDate:    daysAgo(asOf, 120),
			},
			want: 50 + 10 + 10 - 20,
		},
		{
			name: "order between 60 and 90 days ago",
			in: domain.StoreHealthInput{
				OrdersLast90Days: 3,
				LastOrderDate:    daysAgo(asOf, 75),
			},
			want: 50 + 10 - 10,
		},
		{
			name: "order between 30 and 60 days ago",
			in: domain.StoreHealthInput{
				OrdersLast90Days: 3,
				LastOrderDate:    daysAgo(asOf, 45),
			},
			want: 50 + 10 - 5,
		},
		{
			name: "all zero history floors gracefully",
			in:   domain.StoreHealthInput{},
			want: 50 - 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HealthScore(tt.in, asOf))
		})
	}
}

func TestHealthScoreBounds(t *testing.T) {
	asOf := day("2024-04-01")

	inputs := []domain.StoreHealthInput{
		{},
		{TotalRevenue: 1e9, OrdersLast30Days: 1000, OrdersLast90Days: 3000, LastOrderDate: daysAgo(asOf, 0)},
		{TotalRevenue: 0, OrdersLast30Days: 0, OrdersLast90Days: 0, LastOrderDate: daysAgo(asOf, 400)},
		{LastOrderDate: nil},
	}

	for _, in := range inputs {
		score := HealthScore(in, asOf)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestHealthScoreRevenueMonotonicAcrossBoundary(t *testing.T) {
	asOf := day("2024-04-01")
	base := domain.StoreHealthInput{
		OrdersLast30Days: 3,
		OrdersLast90Days: 6,
		LastOrderDate:    daysAgo(asOf, 10),
	}

	prev := -1
	for _, revenue := range []float64{9999, 10001, 50001, 99999, 100001, 500000} {
		in := base
		in.TotalRevenue = revenue
		score := HealthScore(in, asOf)
		assert.GreaterOrEqual(t, score, prev, "revenue %v", revenue)
		prev = score
	}
}

func TestStoreStatus(t *testing.T) {
	asOf := day("2024-04-01")

	assert.Equal(t, domain.StoreStatusNew, StoreStatus(nil, asOf))
	assert.Equal(t, domain.StoreStatusActive, StoreStatus(daysAgo(asOf, 5), asOf))
	assert.Equal(t, domain.StoreStatusActive, StoreStatus(daysAgo(asOf, 90), asOf))
	assert.Equal(t, domain.StoreStatusInactive, StoreStatus(daysAgo(asOf, 91), asOf))
}
