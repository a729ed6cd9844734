package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bluebird1313/reporder/internal/analytics"
	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/repository"
)

// AlertService keeps stock alerts in step with inventory levels. At most one
// alert per (store, product) pair stays active; reconciliation resolves the
// rest whenever a level changes.
type AlertService struct {
	alerts    repository.AlertRepository
	inventory repository.InventoryRepository
	now       func() time.Time
}

func NewAlertService(alerts repository.AlertRepository, inventory repository.InventoryRepository) *AlertService {
	return &AlertService{
		alerts:    alerts,
		inventory: inventory,
		now:       time.Now,
	}
}

// SyncInventoryLevel records a product's on-hand position at a store and
// reconciles its alerts against the new level. It reports whether an alert
// is active for the pair afterwards. An invalid reading is rejected before
// the inventory row is written.
func (s *AlertService) SyncInventoryLevel(ctx context.Context, sp *domain.StoreProduct) (bool, error) {
	alertType, flagged, err := analytics.ClassifyStockLevel(sp.Quantity, sp.MinimumStock)
	if err != nil {
		return false, err
	}

	if err := s.inventory.UpsertStoreProduct(ctx, sp); err != nil {
		return false, fmt.Errorf("failed to upsert inventory level: %w", err)
	}

	if err := s.reconcileAlerts(ctx, sp, alertType, flagged); err != nil {
		return false, err
	}
	return flagged, nil
}

func (s *AlertService) reconcileAlerts(ctx context.Context, sp *domain.StoreProduct, alertType domain.AlertType, flagged bool) error {
	resolvedAt := s.now()

	if !flagged {
		return s.alerts.ResolveActiveForPair(ctx, sp.StoreID, sp.ProductID, resolvedAt)
	}

	alert := &domain.StockAlert{
		StoreID:   sp.StoreID,
		ProductID: sp.ProductID,
		AlertType: alertType,
		Quantity:  sp.Quantity,
		Threshold: sp.MinimumStock,
	}
	if err := s.alerts.UpsertAlert(ctx, alert); err != nil {
		return err
	}

	// A type flip (low to out_of_stock or back) lands on a different upsert
	// row, so the previous type has to be closed out explicitly.
	if err := s.alerts.ResolveActiveOtherTypes(ctx, sp.StoreID, sp.ProductID, alertType, resolvedAt); err != nil {
		return err
	}

	log.Debug().
		Str("store_id", sp.StoreID).
		Str("product_id", sp.ProductID).
		Str("alert_type", string(alertType)).
		Int("quantity", sp.Quantity).
		Msg("stock alert raised")
	return nil
}

// ListActiveAlerts returns open alerts, out-of-stock first, newest within each
// severity. An empty storeID lists across all stores.
func (s *AlertService) ListActiveAlerts(ctx context.Context, storeID string) ([]domain.StockAlert, error) {
	alerts, err := s.alerts.ListActive(ctx, storeID)
	if err != nil {
		return nil, err
	}
	analytics.SortAlerts(alerts)
	return alerts, nil
}

// ResolveAlert manually closes one alert by id.
func (s *AlertService) ResolveAlert(ctx context.Context, alertID string) error {
	return s.alerts.ResolveAlert(ctx, alertID, s.now())
}
