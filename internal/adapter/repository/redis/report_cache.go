package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adelh/branchcash/internal/usecase"
)

const (
	reportKey = "branchcash:reconcile:latest"
	lockKey   = "branchcash:reconcile:lock"
)

// ReportCache stores the latest reconciliation report so the HTTP read
// path does not rerun the aggregation on every request. It also carries
// the lock that keeps multiple server instances from reconciling at the
// same time.
type ReportCache struct {
	client *redis.Client
}

// NewReportCache creates a new ReportCache.
func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{client: client}
}

// SetLatest stores the report as the most recent run.
func (c *ReportCache) SetLatest(ctx context.Context, report *usecase.ReconciliationReport, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, reportKey, data, ttl).Err()
}

// Latest returns the most recent report, or (nil, nil) when none is cached.
func (c *ReportCache) Latest(ctx context.Context) (*usecase.ReconciliationReport, error) {
	data, err := c.client.Get(ctx, reportKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report usecase.ReconciliationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

// AcquireLock claims the reconciliation lock for the given duration.
// Returns false when another instance holds it.
func (c *ReportCache) AcquireLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, lockKey, "locked", ttl).Result()
}

// ReleaseLock releases the reconciliation lock.
func (c *ReportCache) ReleaseLock(ctx context.Context) error {
	return c.client.Del(ctx, lockKey).Err()
}
