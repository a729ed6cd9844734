package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bluebird1313/reporder/internal/domain"
)

// AlertRepository persists stock alerts. The conflict key for upserts is
// (store_id, product_id, alert_type); resolution clears by pair so a type
// flip cannot leave two active alerts behind.
type AlertRepository interface {
	UpsertAlert(ctx context.Context, alert *domain.StockAlert) error
	ResolveActiveForPair(ctx context.Context, storeID, productID string, resolvedAt time.Time) error
	ResolveActiveOtherTypes(ctx context.Context, storeID, productID string, keep domain.AlertType, resolvedAt time.Time) error
	ResolveAlert(ctx context.Context, alertID string, resolvedAt time.Time) error
	ListActive(ctx context.Context, storeID string) ([]domain.StockAlert, error)
	FindProduct(ctx context.Context, productID, styleNumber, upcCode string) (*domain.Product, error)
}

type alertRepository struct {
	db *sqlx.DB
}

func NewAlertRepository(db *sqlx.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) UpsertAlert(ctx context.Context, alert *domain.StockAlert) error {
	query := `
		INSERT INTO stock_alerts (store_id, product_id, alert_type, quantity, threshold, resolved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULL, NOW(), NOW())
		ON CONFLICT (store_id, product_id, alert_type)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			threshold = EXCLUDED.threshold,
			resolved_at = NULL,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		alert.StoreID, alert.ProductID, alert.AlertType, alert.Quantity, alert.Threshold)
	if err := row.Scan(&alert.ID, &alert.CreatedAt, &alert.UpdatedAt); err != nil {
		return fmt.Errorf("error upserting stock alert: %w", err)
	}

	return nil
}

func (r *alertRepository) ResolveActiveForPair(ctx context.Context, storeID, productID string, resolvedAt time.Time) error {
	query := `
		UPDATE stock_alerts
		SET resolved_at = $3, updated_at = NOW()
		WHERE store_id = $1 AND product_id = $2 AND resolved_at IS NULL
	`

	if _, err := r.db.ExecContext(ctx, query, storeID, productID, resolvedAt); err != nil {
		return fmt.Errorf("error resolving stock alerts: %w", err)
	}
	return nil
}

func (r *alertRepository) ResolveActiveOtherTypes(ctx context.Context, storeID, productID string, keep domain.AlertType, resolvedAt time.Time) error {
	query := `
		UPDATE stock_alerts
		SET resolved_at = $4, updated_at = NOW()
		WHERE store_id = $1 AND product_id = $2 AND alert_type <> $3 AND resolved_at IS NULL
	`

	if _, err := r.db.ExecContext(ctx, query, storeID, productID, keep, resolvedAt); err != nil {
		return fmt.Errorf("error resolving other alert types: %w", err)
	}
	return nil
}

func (r *alertRepository) ResolveAlert(ctx context.Context, alertID string, resolvedAt time.Time) error {
	query := `
		UPDATE stock_alerts
		SET resolved_at = $2, updated_at = NOW()
		WHERE id = $1 AND resolved_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, alertID, resolvedAt)
	if err != nil {
		return fmt.Errorf("error resolving stock alert: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *alertRepository) ListActive(ctx context.Context, storeID string) ([]domain.StockAlert, error) {
	query := `
		SELECT
			a.id, a.store_id, s.name AS store_name,
			a.product_id, p.name AS product_name, p.style_number,
			a.alert_type, a.quantity, a.threshold,
			a.resolved_at, a.created_at, a.updated_at
		FROM stock_alerts a
		JOIN stores s ON s.id = a.store_id
		JOIN products p ON p.id = a.product_id
		WHERE a.resolved_at IS NULL
	`

	var args []interface{}
	if storeID != "" {
		query += " AND a.store_id = $1"
		args = append(args, storeID)
	}
	query += " ORDER BY a.created_at DESC"

	var alerts []domain.StockAlert
	if err := r.db.SelectContext(ctx, &alerts, query, args...); err != nil {
		return nil, fmt.Errorf("error listing active stock alerts: %w", err)
	}

	return alerts, nil
}

// FindProduct resolves a feed row's product reference, trying the explicit id
// first, then the style number, then the UPC.
func (r *alertRepository) FindProduct(ctx context.Context, productID, styleNumber, upcCode string) (*domain.Product, error) {
	const columns = `id, sku, name, brand, style_number, upc_code, default_min_stock, created_at, updated_at`

	var (
		query string
		arg   string
	)
	switch {
	case productID != "":
		query = `SELECT ` + columns + ` FROM products WHERE id = $1`
		arg = productID
	case styleNumber != "":
		query = `SELECT ` + columns + ` FROM products WHERE style_number = $1`
		arg = styleNumber
	case upcCode != "":
		query = `SELECT ` + columns + ` FROM products WHERE upc_code = $1`
		arg = upcCode
	default:
		return nil, ErrNotFound
	}

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding product: %w", err)
	}

	return &product, nil
}
