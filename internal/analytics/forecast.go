package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/bluebird1313/reporder/internal/domain"
)

const (
	// minSeriesLength is the fewest historical days we will forecast from.
	// Below this the result is an empty series, not an error.
	minSeriesLength = 3

	// baselineWindowDays caps how much history feeds the baseline averages
	baselineWindowDays = 30

	// DefaultForecastHorizon is the horizon used when callers don't specify one
	DefaultForecastHorizon = 30
)

// Forecast projects daily revenue and units for horizonDays days after today.
//
// The model is a deliberately simple one: mean of the most recent 30 days plus
// a first-minus-last trend scaled by day index. Revenue is trended, units are
// not. Confidence shrinks linearly with the day index and floors at 0.7.
//
// The input series is expected most-recent-first; any other ordering is
// normalized before use. With fewer than three data points the function
// returns an empty slice, which callers render as "no forecast available".
// today is injected so the computation stays a pure function of its inputs.
func Forecast(series []domain.DailyAggregate, horizonDays int, today time.Time) []domain.ForecastPoint {
	if len(series) < minSeriesLength || horizonDays <= 0 {
		return []domain.ForecastPoint{}
	}

	window := make([]domain.DailyAggregate, len(series))
	copy(window, series)
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Date.After(window[j].Date)
	})
	if len(window) > baselineWindowDays {
		window = window[:baselineWindowDays]
	}

	var sumRevenue, sumUnits float64
	for _, day := range window {
		sumRevenue += day.Revenue
		sumUnits += float64(day.Units)
	}
	avgRevenue := sumRevenue / float64(len(window))
	avgUnits := sumUnits / float64(len(window))

	// First-minus-last difference over the window size, not a regression
	// slope. Kept exactly as the dashboard has always computed it.
	trend := (window[0].Revenue - window[len(window)-1].Revenue) / float64(len(window))

	points := make([]domain.ForecastPoint, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		predictedRevenue := math.Max(0, avgRevenue+trend*float64(i))
		confidence := math.Max(0.7, 1-float64(i)*0.01)

		points = append(points, domain.ForecastPoint{
			Date:             today.AddDate(0, 0, i),
			PredictedRevenue: predictedRevenue,
			PredictedUnits:   math.Max(0, avgUnits),
			ConfidenceInterval: [2]float64{
				math.Max(0, predictedRevenue*(1-confidence)),
				predictedRevenue * (1 + confidence),
			},
		})
	}

	return points
}
