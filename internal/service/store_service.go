package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bluebird1313/reporder/internal/analytics"
	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/repository"
)

// rollupConcurrency bounds the parallel per-store aggregate queries so a long
// store list cannot exhaust the database pool.
const rollupConcurrency = 8

// StoreService derives per-store sales rollups, health scores and status from
// raw order aggregates.
type StoreService struct {
	stores repository.StoreRepository
	now    func() time.Time
}

func NewStoreService(stores repository.StoreRepository) *StoreService {
	return &StoreService{
		stores: stores,
		now:    time.Now,
	}
}

func (s *StoreService) ListStoreSales(ctx context.Context) ([]domain.StoreSales, error) {
	stores, err := s.stores.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	asOf := s.now()
	results := make([]domain.StoreSales, len(stores))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rollupConcurrency)

	for i, store := range stores {
		g.Go(func() error {
			rollup, err := s.stores.GetOrderRollup(gctx, store.ID, asOf)
			if err != nil {
				return fmt.Errorf("rollup for store %s: %w", store.ID, err)
			}
			results[i] = buildStoreSales(store, rollup, asOf)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *StoreService) GetStoreSales(ctx context.Context, storeID string) (*domain.StoreSales, error) {
	store, err := s.stores.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	rollup, err := s.stores.GetOrderRollup(ctx, store.ID, asOf)
	if err != nil {
		return nil, fmt.Errorf("rollup for store %s: %w", store.ID, err)
	}

	sales := buildStoreSales(*store, rollup, asOf)
	return &sales, nil
}

func buildStoreSales(store domain.Store, rollup *repository.StoreOrderRollup, asOf time.Time) domain.StoreSales {
	health := analytics.HealthScore(domain.StoreHealthInput{
		TotalRevenue:     rollup.TotalRevenue,
		OrdersLast30Days: rollup.OrdersLast30Days,
		OrdersLast90Days: rollup.OrdersLast90Days,
		LastOrderDate:    rollup.LastOrderDate,
	}, asOf)

	var avgOrder float64
	if rollup.TotalOrders > 0 {
		avgOrder = rollup.TotalRevenue / float64(rollup.TotalOrders)
	}

	return domain.StoreSales{
		StoreID:          store.ID,
		StoreName:        store.Name,
		Address:          store.Address,
		CustomerMatch:    rollup.CustomerMatch,
		TotalOrders:      rollup.TotalOrders,
		TotalRevenue:     rollup.TotalRevenue,
		TotalItemsSold:   rollup.TotalItemsSold,
		AvgOrderValue:    avgOrder,
		LastOrderDate:    rollup.LastOrderDate,
		OrdersLast30Days: rollup.OrdersLast30Days,
		RevenueLast30:    rollup.RevenueLast30,
		OrdersLast90Days: rollup.OrdersLast90Days,
		RevenueLast90:    rollup.RevenueLast90,
		PrimarySalesRep:  rollup.PrimarySalesRep,
		Status:           analytics.StoreStatus(rollup.LastOrderDate, asOf),
		HealthScore:      health,
	}
}
