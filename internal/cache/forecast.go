package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/bluebird1313/reporder/internal/config"
	"github.com/bluebird1313/reporder/internal/domain"
)

const (
	forecastKeyPrefix = "forecast:series"
	scanBatchSize     = 100
)

// ForecastCache holds computed forecast series keyed by their scope. Forecasts
// are pure over sales history that changes at most daily, so even short TTLs
// save most of the repeated history fetches.
type ForecastCache interface {
	Get(ctx context.Context, filter domain.ForecastFilter) ([]domain.ForecastPoint, bool, error)
	Set(ctx context.Context, filter domain.ForecastFilter, points []domain.ForecastPoint) error
	InvalidateAll(ctx context.Context) error
}

// NewForecastCache picks the backend from config: Redis when an endpoint is
// configured, an in-process store otherwise, and a noop when caching is off.
func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	if cfg.RedisURL == "" && cfg.RedisHost == "" {
		ttl := ttlOrDefault(cfg.ForecastTTLSeconds)
		return &memoryForecastCache{
			store: gocache.New(ttl, 2*ttl),
		}, nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttlOrDefault(cfg.ForecastTTLSeconds),
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisForecastCache) Get(ctx context.Context, filter domain.ForecastFilter) ([]domain.ForecastPoint, bool, error) {
	payload, err := c.client.Get(ctx, buildForecastKey(filter)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var points []domain.ForecastPoint
	if err := json.Unmarshal(payload, &points); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return points, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, filter domain.ForecastFilter, points []domain.ForecastPoint) error {
	payload, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, buildForecastKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, scanBatchSize)
}

type memoryForecastCache struct {
	store *gocache.Cache
}

func (c *memoryForecastCache) Get(_ context.Context, filter domain.ForecastFilter) ([]domain.ForecastPoint, bool, error) {
	value, ok := c.store.Get(buildForecastKey(filter))
	if !ok {
		return nil, false, nil
	}

	points, ok := value.([]domain.ForecastPoint)
	if !ok {
		return nil, false, nil
	}
	return points, true, nil
}

func (c *memoryForecastCache) Set(_ context.Context, filter domain.ForecastFilter, points []domain.ForecastPoint) error {
	c.store.SetDefault(buildForecastKey(filter), points)
	return nil
}

func (c *memoryForecastCache) InvalidateAll(context.Context) error {
	c.store.Flush()
	return nil
}

type noopForecastCache struct{}

func (noopForecastCache) Get(context.Context, domain.ForecastFilter) ([]domain.ForecastPoint, bool, error) {
	return nil, false, nil
}

func (noopForecastCache) Set(context.Context, domain.ForecastFilter, []domain.ForecastPoint) error {
	return nil
}

func (noopForecastCache) InvalidateAll(context.Context) error { return nil }

func buildForecastKey(filter domain.ForecastFilter) string {
	var parts []string
	if filter.StoreID != "" {
		parts = append(parts, "store="+filter.StoreID)
	}
	if filter.Brand != "" {
		parts = append(parts, "brand="+strings.ToUpper(filter.Brand))
	}
	if filter.Horizon > 0 {
		parts = append(parts, "horizon="+strconv.Itoa(filter.Horizon))
	}

	if len(parts) == 0 {
		return forecastKeyPrefix + ":default"
	}

	raw := strings.Join(parts, "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", forecastKeyPrefix, hex.EncodeToString(hash[:]))
}
