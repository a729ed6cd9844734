package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluebird1313/reporder/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// flatSeries builds n days of identical sales ending the day before today,
// most recent first.
func flatSeries(n int, units int, revenue float64, today time.Time) []domain.DailyAggregate {
	series := make([]domain.DailyAggregate, 0, n)
	for i := 1; i <= n; i++ {
		series = append(series, domain.DailyAggregate{
			Date:    today.AddDate(0, 0, -i),
			Units:   units,
			Revenue: revenue,
		})
	}
	return series
}

func TestForecastInsufficientData(t *testing.T) {
	today := day("2024-01-01")

	assert.Empty(t, Forecast(nil, 30, today))
	assert.Empty(t, Forecast(flatSeries(1, 10, 100, today), 30, today))
	assert.Empty(t, Forecast(flatSeries(2, 10, 100, today), 7, today))
}

func TestForecastHorizonAndDates(t *testing.T) {
	today := day("2024-03-15")
	series := flatSeries(10, 50, 800, today)

	points := Forecast(series, 14, today)
	require.Len(t, points, 14)

	for i, p := range points {
		assert.Equal(t, today.AddDate(0, 0, i+1), p.Date, "point %d", i)
	}
}

func TestForecastDeterminism(t *testing.T) {
	today := day("2024-06-01")
	series := []domain.DailyAggregate{
		{Date: day("2024-05-31"), Units: 12, Revenue: 340.5},
		{Date: day("2024-05-30"), Units: 7, Revenue: 120},
		{Date: day("2024-05-29"), Units: 31, Revenue: 990.25},
		{Date: day("2024-05-28"), Units: 0, Revenue: 0},
	}

	first := Forecast(series, 30, today)
	second := Forecast(series, 30, today)
	assert.Equal(t, first, second)
}

func TestForecastNormalizesAscendingInput(t *testing.T) {
	today := day("2024-06-01")
	desc := []domain.DailyAggregate{
		{Date: day("2024-05-31"), Units: 10, Revenue: 500},
		{Date: day("2024-05-30"), Units: 10, Revenue: 400},
		{Date: day("2024-05-29"), Units: 10, Revenue: 300},
	}
	asc := []domain.DailyAggregate{desc[2], desc[1], desc[0]}

	assert.Equal(t, Forecast(desc, 10, today), Forecast(asc, 10, today))
}

func TestForecastNonNegativity(t *testing.T) {
	today := day("2024-01-01")

	// steep downward trend pushes the raw projection below zero
	declining := []domain.DailyAggregate{
		{Date: day("2023-12-31"), Units: 1, Revenue: 10},
		{Date: day("2023-12-30"), Units: 5, Revenue: 500},
		{Date: day("2023-12-29"), Units: 20, Revenue: 2000},
	}

	for _, series := range [][]domain.DailyAggregate{
		declining,
		flatSeries(5, 0, 0, today),
		flatSeries(40, 3, 25, today),
	} {
		for _, p := range Forecast(series, 60, today) {
			assert.GreaterOrEqual(t, p.PredictedRevenue, 0.0)
			assert.GreaterOrEqual(t, p.PredictedUnits, 0.0)
			assert.GreaterOrEqual(t, p.ConfidenceInterval[0], 0.0)
			assert.GreaterOrEqual(t, p.ConfidenceInterval[1], 0.0)
			assert.LessOrEqual(t, p.ConfidenceInterval[0], p.PredictedRevenue)
			assert.LessOrEqual(t, p.PredictedRevenue, p.ConfidenceInterval[1])
		}
	}
}

func TestForecastOnlyRevenueIsTrended(t *testing.T) {
	today := day("2024-02-01")
	series := []domain.DailyAggregate{
		{Date: day("2024-01-31"), Units: 10, Revenue: 1000},
		{Date: day("2024-01-30"), Units: 10, Revenue: 700},
		{Date: day("2024-01-29"), Units: 10, Revenue: 400},
	}
	// trend = (1000 - 400) / 3 = 200 per day, avg revenue 700

	points := Forecast(series, 3, today)
	require.Len(t, points, 3)

	assert.InDelta(t, 900, points[0].PredictedRevenue, 1e-9)
	assert.InDelta(t, 1100, points[1].PredictedRevenue, 1e-9)
	assert.InDelta(t, 1300, points[2].PredictedRevenue, 1e-9)

	// units stay flat at the window average regardless of trend
	for _, p := range points {
		assert.InDelta(t, 10, p.PredictedUnits, 1e-9)
	}
}

func TestForecastBaselineWindowCapsAtThirtyDays(t *testing.T) {
	today := day("2024-05-01")

	// 30 recent days at 100 revenue, then 10 older days at 9999 that must be
	// excluded from the baseline
	series := flatSeries(30, 5, 100, today)
	for i := 31; i <= 40; i++ {
		series = append(series, domain.DailyAggregate{
			Date:    today.AddDate(0, 0, -i),
			Units:   5,
			Revenue: 9999,
		})
	}

	points := Forecast(series, 1, today)
	require.Len(t, points, 1)
	assert.InDelta(t, 100, points[0].PredictedRevenue, 1e-9)
}

func TestForecastFlatSeriesScenario(t *testing.T) {
	today := day("2024-01-01")
	series := flatSeries(5, 100, 1000, today)

	points := Forecast(series, 3, today)
	require.Len(t, points, 3)

	assert.Equal(t, day("2024-01-02"), points[0].Date)
	assert.Equal(t, day("2024-01-04"), points[2].Date)

	for i, p := range points {
		// zero trend: prediction stays at the window average
		assert.InDelta(t, 1000, p.PredictedRevenue, 1e-9)
		assert.InDelta(t, 100, p.PredictedUnits, 1e-9)

		confidence := 1 - float64(i+1)*0.01
		assert.InDelta(t, 1000*(1-confidence), p.ConfidenceInterval[0], 1e-9)
		assert.InDelta(t, 1000*(1+confidence), p.ConfidenceInterval[1], 1e-9)
	}

	// day one: confidence 0.99 puts the band at [10, 1990]
	assert.InDelta(t, 10, points[0].ConfidenceInterval[0], 1e-9)
	assert.InDelta(t, 1990, points[0].ConfidenceInterval[1], 1e-9)
}

func TestForecastConfidenceFloorsAtPointSeven(t *testing.T) {
	today := day("2024-01-01")
	points := Forecast(flatSeries(5, 100, 1000, today), 60, today)
	require.Len(t, points, 60)

	// from day 30 on, confidence stays pinned at 0.7
	for _, p := range points[29:] {
		assert.InDelta(t, 300, p.ConfidenceInterval[0], 1e-9)
		assert.InDelta(t, 1700, p.ConfidenceInterval[1], 1e-9)
	}
}
