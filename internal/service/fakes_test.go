package service

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/repository"
)

type fakeSalesRepo struct {
	series  []domain.DailyAggregate
	actual  decimal.Decimal
	metrics []domain.SalesMetric
	fetches int
}

func (f *fakeSalesRepo) GetDailyAggregates(context.Context, string, string, int) ([]domain.DailyAggregate, error) {
	f.fetches++
	return append([]domain.DailyAggregate(nil), f.series...), nil
}

func (f *fakeSalesRepo) UpsertSalesMetric(_ context.Context, metric *domain.SalesMetric) error {
	f.metrics = append(f.metrics, *metric)
	return nil
}

func (f *fakeSalesRepo) GetActualSales(context.Context, string, string, domain.GoalType, time.Time) (decimal.Decimal, error) {
	return f.actual, nil
}

type fakeStoreRepo struct {
	stores  map[string]domain.Store
	rollups map[string]*repository.StoreOrderRollup
}

func (f *fakeStoreRepo) ListStores(context.Context) ([]domain.Store, error) {
	var out []domain.Store
	for _, s := range f.stores {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStoreRepo) GetStore(_ context.Context, id string) (*domain.Store, error) {
	store, ok := f.stores[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &store, nil
}

func (f *fakeStoreRepo) GetOrderRollup(_ context.Context, storeID string, _ time.Time) (*repository.StoreOrderRollup, error) {
	rollup, ok := f.rollups[storeID]
	if !ok {
		return &repository.StoreOrderRollup{StoreID: storeID}, nil
	}
	return rollup, nil
}

type fakeGoalRepo struct {
	goals map[string]*domain.RepGoal
}

func (f *fakeGoalRepo) CreateGoal(_ context.Context, goal *domain.RepGoal) error {
	if f.goals == nil {
		f.goals = make(map[string]*domain.RepGoal)
	}
	goal.ID = "goal-1"
	stored := *goal
	f.goals[goal.ID] = &stored
	return nil
}

func (f *fakeGoalRepo) UpdateGoal(_ context.Context, goal *domain.RepGoal) error {
	if _, ok := f.goals[goal.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *goal
	f.goals[goal.ID] = &stored
	return nil
}

func (f *fakeGoalRepo) GetGoal(_ context.Context, id string) (*domain.RepGoal, error) {
	goal, ok := f.goals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *goal
	return &copied, nil
}

func (f *fakeGoalRepo) ListGoalsByRep(_ context.Context, repID string, since time.Time) ([]domain.RepGoal, error) {
	var out []domain.RepGoal
	for _, goal := range f.goals {
		if goal.RepID == repID && !goal.GoalMonth.Before(since) {
			out = append(out, *goal)
		}
	}
	return out, nil
}

type fakeForecastCache struct {
	entries      map[string][]domain.ForecastPoint
	invalidated  int
	failingReads bool
}

func forecastCacheKey(filter domain.ForecastFilter) string {
	return filter.StoreID + "|" + filter.Brand + "|" + strconv.Itoa(filter.Horizon)
}

func (f *fakeForecastCache) Get(_ context.Context, filter domain.ForecastFilter) ([]domain.ForecastPoint, bool, error) {
	if f.failingReads {
		return nil, false, context.DeadlineExceeded
	}
	points, ok := f.entries[forecastCacheKey(filter)]
	return points, ok, nil
}

func (f *fakeForecastCache) Set(_ context.Context, filter domain.ForecastFilter, points []domain.ForecastPoint) error {
	if f.entries == nil {
		f.entries = make(map[string][]domain.ForecastPoint)
	}
	f.entries[forecastCacheKey(filter)] = points
	return nil
}

func (f *fakeForecastCache) InvalidateAll(context.Context) error {
	f.invalidated++
	f.entries = nil
	return nil
}
