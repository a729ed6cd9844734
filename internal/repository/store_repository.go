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

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// StoreOrderRollup is the raw order aggregate for one store, before the
// service layer derives status and health score from it.
type StoreOrderRollup struct {
	StoreID          string     `db:"store_id"`
	CustomerMatch    string     `db:"customer_match"`
	TotalOrders      int        `db:"total_orders"`
	TotalRevenue     float64    `db:"total_revenue"`
	TotalItemsSold   int        `db:"total_items_sold"`
	LastOrderDate    *time.Time `db:"last_order_date"`
	OrdersLast30Days int        `db:"orders_last_30"`
	RevenueLast30    float64    `db:"revenue_last_30"`
	OrdersLast90Days int        `db:"orders_last_90"`
	RevenueLast90    float64    `db:"revenue_last_90"`
	PrimarySalesRep  string     `db:"primary_sales_rep"`
}

type StoreRepository interface {
	ListStores(ctx context.Context) ([]domain.Store, error)
	GetStore(ctx context.Context, id string) (*domain.Store, error)
	GetOrderRollup(ctx context.Context, storeID string, asOf time.Time) (*StoreOrderRollup, error)
}

type storeRepository struct {
	db *sqlx.DB
}

func NewStoreRepository(db *sqlx.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	var stores []domain.Store
	query := `SELECT id, name, address, created_at, updated_at FROM stores ORDER BY name`
	if err := r.db.SelectContext(ctx, &stores, query); err != nil {
		return nil, fmt.Errorf("error listing stores: %w", err)
	}
	return stores, nil
}

func (r *storeRepository) GetStore(ctx context.Context, id string) (*domain.Store, error) {
	var store domain.Store
	query := `SELECT id, name, address, created_at, updated_at FROM stores WHERE id = $1`
	if err := r.db.GetContext(ctx, &store, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting store: %w", err)
	}
	return &store, nil
}

// GetOrderRollup aggregates a store's order history in one pass. Store rows
// and customer orders are matched by name because the order feed predates the
// store table and carries no store id.
func (r *storeRepository) GetOrderRollup(ctx context.Context, storeID string, asOf time.Time) (*StoreOrderRollup, error) {
	query := `
		WITH matched_orders AS (
			SELECT
				o.id,
				o.customer_name,
				o.order_date,
				o.sales_rep_name,
				COALESCE(SUM(li.total_amount), 0) AS order_revenue,
				COALESCE(SUM(li.quantity), 0) AS order_items
			FROM customer_orders o
			JOIN order_line_items li ON li.order_id = o.id
			JOIN stores s ON s.id = $1
			WHERE o.customer_name ILIKE '%' || s.name || '%'
			   OR o.customer_name ILIKE '%' || split_part(s.name, ' ', 1) || '%'
			GROUP BY o.id, o.customer_name, o.order_date, o.sales_rep_name
		)
		SELECT
			$1 AS store_id,
			COALESCE(MAX(customer_name), '') AS customer_match,
			COUNT(*) AS total_orders,
			COALESCE(SUM(order_revenue), 0) AS total_revenue,
			COALESCE(SUM(order_items), 0) AS total_items_sold,
			MAX(order_date) AS last_order_date,
			COUNT(*) FILTER (WHERE order_date >= $2::timestamptz - interval '30 days') AS orders_last_30,
			COALESCE(SUM(order_revenue) FILTER (WHERE order_date >= $2::timestamptz - interval '30 days'), 0) AS revenue_last_30,
			COUNT(*) FILTER (WHERE order_date >= $2::timestamptz - interval '90 days') AS orders_last_90,
			COALESCE(SUM(order_revenue) FILTER (WHERE order_date >= $2::timestamptz - interval '90 days'), 0) AS revenue_last_90,
			COALESCE((
				SELECT sales_rep_name
				FROM matched_orders
				WHERE sales_rep_name IS NOT NULL AND sales_rep_name <> ''
				GROUP BY sales_rep_name
				ORDER BY SUM(order_revenue) DESC
				LIMIT 1
			), '') AS primary_sales_rep
		FROM matched_orders
	`

	var rollup StoreOrderRollup
	if err := r.db.GetContext(ctx, &rollup, query, storeID, asOf); err != nil {
		return nil, fmt.Errorf("error getting store order rollup: %w", err)
	}

	return &rollup, nil
}
