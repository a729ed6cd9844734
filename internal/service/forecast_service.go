package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bluebird1313/reporder/internal/analytics"
	"github.com/bluebird1313/reporder/internal/cache"
	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/repository"
)

// ForecastService computes sales forecasts from historical daily aggregates.
// Cache failures are logged and swallowed; a cold cache only costs a recompute.
type ForecastService struct {
	sales repository.SalesHistoryRepository
	cache cache.ForecastCache
	now   func() time.Time
}

func NewForecastService(sales repository.SalesHistoryRepository, fc cache.ForecastCache) *ForecastService {
	return &ForecastService{
		sales: sales,
		cache: fc,
		now:   time.Now,
	}
}

func (s *ForecastService) GetForecast(ctx context.Context, filter domain.ForecastFilter) ([]domain.ForecastPoint, error) {
	if filter.Horizon <= 0 {
		filter.Horizon = analytics.DefaultForecastHorizon
	}

	if points, ok, err := s.cache.Get(ctx, filter); err != nil {
		log.Warn().Err(err).Msg("forecast cache read failed")
	} else if ok {
		return points, nil
	}

	series, err := s.sales.GetDailyAggregates(ctx, filter.StoreID, filter.Brand, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales history: %w", err)
	}

	points := analytics.Forecast(series, filter.Horizon, s.now())
	for i := range points {
		points[i].Brand = filter.Brand
	}

	if err := s.cache.Set(ctx, filter, points); err != nil {
		log.Warn().Err(err).Msg("forecast cache write failed")
	}

	return points, nil
}
