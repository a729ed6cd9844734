package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/bluebird1313/reporder/internal/domain"
)

// SalesHistoryRepository serves the per-day aggregate series the forecast
// engine consumes, most recent day first.
type SalesHistoryRepository interface {
	GetDailyAggregates(ctx context.Context, storeID, brand string, limit int) ([]domain.DailyAggregate, error)
	UpsertSalesMetric(ctx context.Context, metric *domain.SalesMetric) error
	GetActualSales(ctx context.Context, storeID, brand string, goalType domain.GoalType, month time.Time) (decimal.Decimal, error)
}

type salesHistoryRepository struct {
	db *sqlx.DB
}

func NewSalesHistoryRepository(db *sqlx.DB) SalesHistoryRepository {
	return &salesHistoryRepository{db: db}
}

const defaultSeriesLimit = 100

func (r *salesHistoryRepository) GetDailyAggregates(ctx context.Context, storeID, brand string, limit int) ([]domain.DailyAggregate, error) {
	if limit <= 0 {
		limit = defaultSeriesLimit
	}

	query := `
		SELECT date, SUM(units) AS units, SUM(revenue) AS revenue
		FROM historical_sales
		WHERE 1=1
	`

	var args []interface{}
	argCounter := 1

	if storeID != "" {
		query += fmt.Sprintf(" AND store_id = $%d", argCounter)
		args = append(args, storeID)
		argCounter++
	}
	if brand != "" {
		query += fmt.Sprintf(" AND brand = $%d", argCounter)
		args = append(args, brand)
		argCounter++
	}

	query += fmt.Sprintf(" GROUP BY date ORDER BY date DESC LIMIT $%d", argCounter)
	args = append(args, limit)

	var series []domain.DailyAggregate
	if err := r.db.SelectContext(ctx, &series, query, args...); err != nil {
		return nil, fmt.Errorf("error getting daily aggregates: %w", err)
	}

	return series, nil
}

func (r *salesHistoryRepository) UpsertSalesMetric(ctx context.Context, metric *domain.SalesMetric) error {
	query := `
		INSERT INTO sales_metrics (store_id, brand, date, ao_sales, prebook_sales, total_units, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (store_id, brand, date)
		DO UPDATE SET
			ao_sales = EXCLUDED.ao_sales,
			prebook_sales = EXCLUDED.prebook_sales,
			total_units = EXCLUDED.total_units,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		metric.StoreID, metric.Brand, metric.Date,
		metric.AOSales, metric.PrebookSales, metric.TotalUnits)
	if err := row.Scan(&metric.ID, &metric.CreatedAt, &metric.UpdatedAt); err != nil {
		return fmt.Errorf("error upserting sales metric: %w", err)
	}

	return nil
}

// GetActualSales sums the goal-type column of sales_metrics over the goal's
// month. Actuals are always derived on read, never cached in the goals table.
func (r *salesHistoryRepository) GetActualSales(ctx context.Context, storeID, brand string, goalType domain.GoalType, month time.Time) (decimal.Decimal, error) {
	column := "ao_sales"
	if goalType == domain.GoalTypePrebook {
		column = "prebook_sales"
	}

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(%s), 0)
		FROM sales_metrics
		WHERE store_id = $1
		  AND brand = $2
		  AND date >= $3
		  AND date < $4
	`, column)

	var actual decimal.Decimal
	if err := r.db.GetContext(ctx, &actual, query, storeID, brand, monthStart, nextMonth); err != nil {
		return decimal.Zero, fmt.Errorf("error getting actual sales: %w", err)
	}

	return actual, nil
}
