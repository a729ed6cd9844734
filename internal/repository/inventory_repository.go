package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bluebird1313/reporder/internal/domain"
)

type InventoryRepository interface {
	GetStoreSummaries(ctx context.Context) ([]domain.StoreInventorySummary, error)
	GetStoreSummary(ctx context.Context, storeID string) (*domain.StoreInventorySummary, error)
	UpsertStoreProduct(ctx context.Context, sp *domain.StoreProduct) error
}

type inventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

const inventorySummaryQuery = `
	SELECT
		s.id AS store_id,
		s.name AS store_name,
		s.address,
		COALESCE(SUM(sp.quantity), 0) AS total_items,
		COUNT(sp.product_id) AS tracked_products,
		COUNT(*) FILTER (WHERE sp.quantity <= sp.minimum_stock) AS low_stock_items,
		COUNT(*) FILTER (WHERE sp.quantity = 0) AS out_of_stock,
		COUNT(*) FILTER (WHERE sp.quantity > sp.minimum_stock) AS well_stocked
	FROM stores s
	LEFT JOIN store_products sp ON sp.store_id = s.id
	GROUP BY s.id, s.name, s.address
`

func (r *inventoryRepository) GetStoreSummaries(ctx context.Context) ([]domain.StoreInventorySummary, error) {
	var summaries []domain.StoreInventorySummary
	if err := r.db.SelectContext(ctx, &summaries, inventorySummaryQuery+" ORDER BY s.name"); err != nil {
		return nil, fmt.Errorf("error getting inventory summaries: %w", err)
	}
	return summaries, nil
}

func (r *inventoryRepository) GetStoreSummary(ctx context.Context, storeID string) (*domain.StoreInventorySummary, error) {
	query := `
		SELECT * FROM (` + inventorySummaryQuery + `) t WHERE t.store_id = $1
	`

	var summary domain.StoreInventorySummary
	if err := r.db.GetContext(ctx, &summary, query, storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting inventory summary: %w", err)
	}

	return &summary, nil
}

func (r *inventoryRepository) UpsertStoreProduct(ctx context.Context, sp *domain.StoreProduct) error {
	query := `
		INSERT INTO store_products (store_id, product_id, quantity, minimum_stock, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (store_id, product_id)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			minimum_stock = EXCLUDED.minimum_stock,
			updated_at = NOW()
		RETURNING updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, sp.StoreID, sp.ProductID, sp.Quantity, sp.MinimumStock)
	if err := row.Scan(&sp.UpdatedAt); err != nil {
		return fmt.Errorf("error upserting store product: %w", err)
	}

	return nil
}
