package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bluebird1313/reporder/internal/domain"
)

type DashboardRepository interface {
	GetSummary(ctx context.Context) (*domain.DashboardSummary, error)
	GetMonthlyRevenue(ctx context.Context) (current, last float64, err error)
	GetTopCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error)
	GetSalesRepPerformance(ctx context.Context, limit int) ([]domain.SalesRepPerformance, error)
	GetRecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error)
}

type dashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	query := `
		WITH order_totals AS (
			SELECT
				o.id,
				o.customer_name,
				o.order_date,
				COALESCE(SUM(li.total_amount), 0) AS revenue,
				COALESCE(SUM(li.quantity), 0) AS items
			FROM customer_orders o
			LEFT JOIN order_line_items li ON li.order_id = o.id
			GROUP BY o.id, o.customer_name, o.order_date
		)
		SELECT
			COALESCE(SUM(revenue), 0) AS total_revenue,
			COUNT(*) AS total_orders,
			COALESCE(SUM(items), 0) AS total_items_sold,
			COALESCE(AVG(revenue), 0) AS avg_order_value,
			COALESCE(SUM(revenue) FILTER (WHERE date_trunc('month', order_date) = date_trunc('month', NOW()) - interval '1 month'), 0) AS revenue_last_month,
			COUNT(*) FILTER (WHERE date_trunc('month', order_date) = date_trunc('month', NOW()) - interval '1 month') AS orders_last_month,
			COALESCE(SUM(revenue) FILTER (WHERE date_trunc('month', order_date) = date_trunc('month', NOW())), 0) AS revenue_current_month,
			COUNT(*) FILTER (WHERE date_trunc('month', order_date) = date_trunc('month', NOW())) AS orders_current_month,
			COUNT(DISTINCT customer_name) FILTER (WHERE order_date >= NOW() - interval '90 days') AS active_customers
		FROM order_totals
	`

	var summary domain.DashboardSummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("error getting dashboard summary: %w", err)
	}

	return &summary, nil
}

func (r *dashboardRepository) GetMonthlyRevenue(ctx context.Context) (float64, float64, error) {
	summary, err := r.GetSummary(ctx)
	if err != nil {
		return 0, 0, err
	}
	return summary.RevenueCurrentMonth, summary.RevenueLastMonth, nil
}

func (r *dashboardRepository) GetTopCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			o.customer_name,
			COALESCE(MAX(o.customer_category), '') AS customer_category,
			COUNT(DISTINCT o.id) AS total_orders,
			COALESCE(SUM(li.total_amount), 0) AS total_revenue,
			COALESCE(SUM(li.quantity), 0) AS total_items,
			COALESCE(SUM(li.total_amount) / NULLIF(COUNT(DISTINCT o.id), 0), 0) AS avg_order_value,
			MAX(o.order_date) AS last_order_date
		FROM customer_orders o
		LEFT JOIN order_line_items li ON li.order_id = o.id
		GROUP BY o.customer_name
		ORDER BY total_revenue DESC
		LIMIT $1
	`

	var customers []domain.TopCustomer
	if err := r.db.SelectContext(ctx, &customers, query, limit); err != nil {
		return nil, fmt.Errorf("error getting top customers: %w", err)
	}

	return customers, nil
}

func (r *dashboardRepository) GetSalesRepPerformance(ctx context.Context, limit int) ([]domain.SalesRepPerformance, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			o.sales_rep_name,
			COUNT(DISTINCT o.id) AS total_orders,
			COALESCE(SUM(li.total_amount), 0) AS total_revenue,
			COALESCE(SUM(li.total_amount) / NULLIF(COUNT(DISTINCT o.id), 0), 0) AS avg_order_value,
			COUNT(DISTINCT o.customer_name) AS unique_customers
		FROM customer_orders o
		LEFT JOIN order_line_items li ON li.order_id = o.id
		WHERE o.sales_rep_name IS NOT NULL AND o.sales_rep_name <> ''
		GROUP BY o.sales_rep_name
		ORDER BY total_revenue DESC
		LIMIT $1
	`

	var reps []domain.SalesRepPerformance
	if err := r.db.SelectContext(ctx, &reps, query, limit); err != nil {
		return nil, fmt.Errorf("error getting sales rep performance: %w", err)
	}

	return reps, nil
}

func (r *dashboardRepository) GetRecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT
			o.order_number,
			o.customer_name,
			o.order_date,
			COALESCE(o.order_status, '') AS order_status,
			COALESCE(SUM(li.total_amount), 0) AS order_revenue,
			COALESCE(SUM(li.quantity), 0) AS items_sold
		FROM customer_orders o
		LEFT JOIN order_line_items li ON li.order_id = o.id
		GROUP BY o.id, o.order_number, o.customer_name, o.order_date, o.order_status
		ORDER BY o.order_date DESC
		LIMIT $1
	`

	var orders []domain.RecentOrder
	if err := r.db.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, fmt.Errorf("error getting recent orders: %w", err)
	}

	return orders, nil
}
