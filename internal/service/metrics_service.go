package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bluebird1313/reporder/internal/cache"
	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/repository"
)

// MetricsService records daily brand sales arriving over the webhook feed.
type MetricsService struct {
	stores    repository.StoreRepository
	sales     repository.SalesHistoryRepository
	forecasts cache.ForecastCache
}

func NewMetricsService(stores repository.StoreRepository, sales repository.SalesHistoryRepository, forecasts cache.ForecastCache) *MetricsService {
	return &MetricsService{
		stores:    stores,
		sales:     sales,
		forecasts: forecasts,
	}
}

// RecordBrandSales upserts one (store, brand, date) metric row. The store must
// already exist; the webhook never creates stores.
func (s *MetricsService) RecordBrandSales(ctx context.Context, metric *domain.SalesMetric) error {
	if _, err := s.stores.GetStore(ctx, metric.StoreID); err != nil {
		return fmt.Errorf("store %s: %w", metric.StoreID, err)
	}

	if err := s.sales.UpsertSalesMetric(ctx, metric); err != nil {
		return err
	}

	if err := s.forecasts.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("forecast cache invalidation failed")
	}

	log.Info().
		Str("store_id", metric.StoreID).
		Str("brand", metric.Brand).
		Str("date", metric.Date.Format("2006-01-02")).
		Msg("brand sales metric recorded")
	return nil
}
