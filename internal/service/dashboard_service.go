package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/bluebird1313/reporder/internal/analytics"
	"github.com/bluebird1313/reporder/internal/cache"
	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/repository"
)

// DashboardService assembles the headline dashboard blocks.
type DashboardService struct {
	dashboards repository.DashboardRepository
	inventory  repository.InventoryRepository
	cache      cache.DashboardSummaryCache
}

func NewDashboardService(dashboards repository.DashboardRepository, inventory repository.InventoryRepository, summaryCache cache.DashboardSummaryCache) *DashboardService {
	return &DashboardService{
		dashboards: dashboards,
		inventory:  inventory,
		cache:      summaryCache,
	}
}

func (s *DashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard cache read failed")
	} else if ok {
		return summary, nil
	}

	summary, err := s.dashboards.GetSummary(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("dashboard cache write failed")
	}

	return summary, nil
}

func (s *DashboardService) GetMonthlyComparison(ctx context.Context) (*domain.MonthlyComparison, error) {
	current, last, err := s.dashboards.GetMonthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.MonthlyComparison{
		CurrentMonth:     current,
		LastMonth:        last,
		GrowthPercentage: analytics.GrowthPercentage(current, last),
	}, nil
}

func (s *DashboardService) GetInventorySummaries(ctx context.Context) ([]domain.StoreInventorySummary, error) {
	summaries, err := s.inventory.GetStoreSummaries(ctx)
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		summaries[i].InventoryHealth = analytics.InventoryHealth(summaries[i].WellStocked, summaries[i].TrackedProducts)
	}

	return summaries, nil
}

func (s *DashboardService) GetStoreInventorySummary(ctx context.Context, storeID string) (*domain.StoreInventorySummary, error) {
	summary, err := s.inventory.GetStoreSummary(ctx, storeID)
	if err != nil {
		return nil, err
	}

	summary.InventoryHealth = analytics.InventoryHealth(summary.WellStocked, summary.TrackedProducts)
	return summary, nil
}

func (s *DashboardService) GetTopCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error) {
	return s.dashboards.GetTopCustomers(ctx, limit)
}

func (s *DashboardService) GetSalesRepPerformance(ctx context.Context, limit int) ([]domain.SalesRepPerformance, error) {
	return s.dashboards.GetSalesRepPerformance(ctx, limit)
}

func (s *DashboardService) GetRecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	return s.dashboards.GetRecentOrders(ctx, limit)
}
