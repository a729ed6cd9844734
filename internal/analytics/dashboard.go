package analytics

import "math"

// InventoryHealth is the percentage of tracked products stocked above their
// minimum, rounded to the nearest whole percent. A store tracking nothing
// reads as fully healthy.
func InventoryHealth(wellStocked, trackedProducts int) int {
	if trackedProducts <= 0 {
		return 100
	}
	return int(math.Round(float64(wellStocked) / float64(trackedProducts) * 100))
}

// GrowthPercentage compares current against previous period revenue, rounded
// to two decimals. With no prior revenue, any current revenue reads as 100%
// growth and none at all as 0.
func GrowthPercentage(current, last float64) float64 {
	if last > 0 {
		return math.Round((current-last)/last*100*100) / 100
	}
	if current > 0 {
		return 100
	}
	return 0
}
