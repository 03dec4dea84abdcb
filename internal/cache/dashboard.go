// internal/cache/dashboard.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const dashboardKeyPrefix = "dryice:dashboard"

// DashboardCache holds the assembled dashboard snapshot between requests.
// The snapshot is invalidated whenever the ledger or the dataset changes,
// so a hit can never serve stale policy numbers.
type DashboardCache interface {
	Get(ctx context.Context, windowStart, windowEnd time.Time) (*domain.DashboardSnapshot, bool, error)
	Set(ctx context.Context, windowStart, windowEnd time.Time, snapshot *domain.DashboardSnapshot) error
	Invalidate(ctx context.Context, windowStart, windowEnd time.Time) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, windowStart, windowEnd time.Time) (*domain.DashboardSnapshot, bool, error) {
	payload, err := c.client.Get(ctx, dashboardKey(windowStart, windowEnd)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshot domain.DashboardSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &snapshot, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, windowStart, windowEnd time.Time, snapshot *domain.DashboardSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, dashboardKey(windowStart, windowEnd), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) Invalidate(ctx context.Context, windowStart, windowEnd time.Time) error {
	return c.client.Del(ctx, dashboardKey(windowStart, windowEnd)).Err()
}

func (n *noopDashboardCache) Get(ctx context.Context, windowStart, windowEnd time.Time) (*domain.DashboardSnapshot, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, windowStart, windowEnd time.Time, snapshot *domain.DashboardSnapshot) error {
	return nil
}

func (n *noopDashboardCache) Invalidate(ctx context.Context, windowStart, windowEnd time.Time) error {
	return nil
}

func dashboardKey(windowStart, windowEnd time.Time) string {
	raw := windowStart.Format("2006-01-02") + "|" + windowEnd.Format("2006-01-02")
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, hex.EncodeToString(sum[:]))
}
