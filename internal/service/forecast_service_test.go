package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluebird1313/reporder/internal/domain"
)

func newTestForecastService(sales *fakeSalesRepo, fc *fakeForecastCache) *ForecastService {
	svc := NewForecastService(sales, fc)
	svc.now = func() time.Time { return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func historySeries(days int, revenue float64) []domain.DailyAggregate {
	series := make([]domain.DailyAggregate, days)
	for i := range series {
		series[i] = domain.DailyAggregate{
			Date:    time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -i),
			Units:   10,
			Revenue: revenue,
		}
	}
	return series
}

func TestGetForecastDefaultsHorizon(t *testing.T) {
	sales := &fakeSalesRepo{series: historySeries(10, 1000)}
	svc := newTestForecastService(sales, &fakeForecastCache{})

	points, err := svc.GetForecast(context.Background(), domain.ForecastFilter{StoreID: "store-1"})
	require.NoError(t, err)
	assert.Len(t, points, 30)
}

func TestGetForecastStampsBrandOnPoints(t *testing.T) {
	sales := &fakeSalesRepo{series: historySeries(10, 1000)}
	svc := newTestForecastService(sales, &fakeForecastCache{})

	points, err := svc.GetForecast(context.Background(), domain.ForecastFilter{Brand: "Sendero", Horizon: 7})
	require.NoError(t, err)

	require.Len(t, points, 7)
	for _, p := range points {
		assert.Equal(t, "Sendero", p.Brand)
	}
}

func TestGetForecastUsesCacheOnSecondCall(t *testing.T) {
	sales := &fakeSalesRepo{series: historySeries(10, 1000)}
	fc := &fakeForecastCache{}
	svc := newTestForecastService(sales, fc)

	filter := domain.ForecastFilter{StoreID: "store-1", Horizon: 7}

	first, err := svc.GetForecast(context.Background(), filter)
	require.NoError(t, err)
	second, err := svc.GetForecast(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, sales.fetches, "second call should be served from cache")
}

func TestGetForecastSurvivesCacheFailure(t *testing.T) {
	sales := &fakeSalesRepo{series: historySeries(10, 1000)}
	svc := newTestForecastService(sales, &fakeForecastCache{failingReads: true})

	points, err := svc.GetForecast(context.Background(), domain.ForecastFilter{Horizon: 7})
	require.NoError(t, err)
	assert.Len(t, points, 7)
}

func TestGetForecastShortHistoryYieldsEmpty(t *testing.T) {
	sales := &fakeSalesRepo{series: historySeries(2, 1000)}
	svc := newTestForecastService(sales, &fakeForecastCache{})

	points, err := svc.GetForecast(context.Background(), domain.ForecastFilter{Horizon: 7})
	require.NoError(t, err)
	assert.Empty(t, points)
}
