package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache stores computed reports in Redis as JSON with a TTL. Keys are
// built by the report service and always start with "report:<subjectId>:",
// which is what subject-scoped invalidation scans for.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache. TTL is the staleness backstop when no invalidation
// arrives.
func New(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Get unmarshals the cached value for key into v. The second return is false
// on a miss.
func (c *ReportCache) Get(ctx context.Context, key string, v any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key for the configured TTL.
func (c *ReportCache) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// InvalidateSubject drops every cached report touching subjectID, plus the
// all-subjects student reports, which any mark can affect.
func (c *ReportCache) InvalidateSubject(ctx context.Context, subjectID string) error {
	for _, pattern := range []string{SubjectPattern(subjectID), SubjectPattern("all")} {
		if err := c.deleteMatching(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

func (c *ReportCache) deleteMatching(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// SubjectPattern is the SCAN glob that matches every report key for a subject.
func SubjectPattern(subjectID string) string {
	return "report:" + subjectID + ":*"
}
