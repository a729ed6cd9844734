package analytics

import (
	"errors"
	"sort"

	"github.com/bluebird1313/reporder/internal/domain"
)

var (
	// ErrNegativeQuantity rejects feed rows with a negative on-hand count
	ErrNegativeQuantity = errors.New("quantity must not be negative")

	// ErrNegativeThreshold rejects feed rows with a negative minimum threshold
	ErrNegativeThreshold = errors.New("threshold must not be negative")
)

// ClassifyStockLevel maps an on-hand quantity against its minimum threshold.
// Zero on hand is out_of_stock; at or below the threshold (but above zero) is
// low; above the threshold no alert applies and ok is false. Equal to the
// threshold counts as low.
func ClassifyStockLevel(quantity, threshold int) (alertType domain.AlertType, ok bool, err error) {
	if quantity < 0 {
		return "", false, ErrNegativeQuantity
	}
	if threshold < 0 {
		return "", false, ErrNegativeThreshold
	}

	if quantity > threshold {
		return "", false, nil
	}
	if quantity == 0 {
		return domain.AlertTypeOutOfStock, true, nil
	}
	return domain.AlertTypeLow, true, nil
}

// SortAlerts orders alerts for display: out_of_stock before low, newest
// created first within the same type. The input is sorted in place.
func SortAlerts(alerts []domain.StockAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].AlertType.Priority() != alerts[j].AlertType.Priority() {
			return alerts[i].AlertType.Priority() < alerts[j].AlertType.Priority()
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
}
