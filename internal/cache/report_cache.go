// Package cache implements a Redis-backed report cache keyed by the digest of
// the normalized trade sequence. Re-analyzing an unchanged dataset reuses the
// rendered report instead of rebuilding it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when no report is cached for a digest.
var ErrMiss = errors.New("report cache miss")

const defaultReportTTL = 24 * time.Hour

// ReportCache stores rendered Markdown reports under their dataset digest.
//
// Key schema:
//
//	report:{digest} - string value of the rendered report
type ReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a ReportCache, pinging Redis to verify connectivity.
func New(ctx context.Context, addr, password string, db int) (*ReportCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return &ReportCache{rdb: rdb, ttl: defaultReportTTL}, nil
}

// Close closes the Redis connection.
func (c *ReportCache) Close() error {
	return c.rdb.Close()
}

func reportKey(digest string) string { return "report:" + digest }

// Put stores a rendered report for the given digest.
func (c *ReportCache) Put(ctx context.Context, digest, report string) error {
	if digest == "" {
		return fmt.Errorf("redis: empty digest")
	}
	if err := c.rdb.Set(ctx, reportKey(digest), report, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: put report %s: %w", digest, err)
	}
	return nil
}

// Get retrieves the cached report for a digest. Returns ErrMiss when the
// digest has no cached report.
func (c *ReportCache) Get(ctx context.Context, digest string) (string, error) {
	report, err := c.rdb.Get(ctx, reportKey(digest)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", fmt.Errorf("redis: get report %s: %w", digest, err)
	}
	return report, nil
}
