package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-mentor-platform/internal/domain/insights"
)

// InsightsCache stores computed analytics reports so the dashboard does not
// recompute the full aggregation on every page load. Reports are invalidated
// whenever the user submits a new check-in.
type InsightsCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewInsightsCache(client RedisClient, ttl time.Duration) *InsightsCache {
	return &InsightsCache{client: client, ttl: ttl}
}

func reportKey(userID string, windowDays int) string {
	return fmt.Sprintf("insights:%s:%d", userID, windowDays)
}

func (c *InsightsCache) Store(ctx context.Context, userID string, windowDays int, report *insights.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, reportKey(userID, windowDays), data, c.ttl)
}

func (c *InsightsCache) Get(ctx context.Context, userID string, windowDays int) (*insights.Report, error) {
	data, err := c.client.Get(ctx, reportKey(userID, windowDays))
	if err != nil {
		return nil, err
	}
	var report insights.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Invalidate drops every cached window for the user.
func (c *InsightsCache) Invalidate(ctx context.Context, userID string, windows ...int) error {
	keys := make([]string, 0, len(windows))
	for _, w := range windows {
		keys = append(keys, reportKey(userID, w))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...)
}
