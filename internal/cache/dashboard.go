package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bluebird1313/reporder/internal/config"
	"github.com/bluebird1313/reporder/internal/domain"
)

const dashboardSummaryKey = "dashboard:summary"

// DashboardSummaryCache shields the dashboard aggregates from repeated
// full-table scans. The summary is global, so a single fixed key suffices.
type DashboardSummaryCache interface {
	GetSummary(ctx context.Context) (*domain.DashboardSummary, bool, error)
	SetSummary(ctx context.Context, summary *domain.DashboardSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardSummaryCache, error) {
	if !cfg.Enabled || (cfg.RedisURL == "" && cfg.RedisHost == "") {
		return &noopDashboardCache{}, nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{
		client: client,
		ttl:    ttlOrDefault(cfg.DashboardTTLSeconds),
	}, nil
}

func NewNoopDashboardCache() DashboardSummaryCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetSummary(ctx context.Context) (*domain.DashboardSummary, bool, error) {
	payload, err := c.client.Get(ctx, dashboardSummaryKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.DashboardSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisDashboardCache) SetSummary(ctx context.Context, summary *domain.DashboardSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, dashboardSummaryKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardSummaryKey, scanBatchSize)
}

func (noopDashboardCache) GetSummary(context.Context) (*domain.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (noopDashboardCache) SetSummary(context.Context, *domain.DashboardSummary) error {
	return nil
}

func (noopDashboardCache) InvalidateAll(context.Context) error { return nil }
