package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
)

// AnalysisCache stores serialized analysis reports in Redis, keyed strictly
// by the inputs that determine the result (commodity, threshold, date range).
// It is a performance optimization only: a cleared or cold cache changes
// latency, never results.
type AnalysisCache struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
	logger *logrus.Logger
}

// NewAnalysisCache creates a report cache with the given TTL.
func NewAnalysisCache(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *AnalysisCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &AnalysisCache{
		redis:  redisClient,
		ttl:    ttl,
		prefix: "analysis_report:",
		logger: logger,
	}
}

// ReportKey derives the cache key from every input that determines the
// result. Keying by anything less would let a stale report answer a request
// with a different date range.
func ReportKey(commodity string, threshold float64, from, to time.Time) string {
	return fmt.Sprintf("%s:%.4f:%s:%s",
		commodity, threshold, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// Get retrieves a cached report for the given report key.
func (c *AnalysisCache) Get(ctx context.Context, key string) (*models.AnalysisReport, bool) {
	data, err := c.redis.Get(ctx, c.prefix+key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Warn("Analysis cache read failed")
		return nil, false
	}

	var report models.AnalysisReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		c.logger.WithError(err).Warn("Failed to decode cached analysis report")
		return nil, false
	}

	return &report, true
}

// Set stores a report under the given report key with the cache TTL.
func (c *AnalysisCache) Set(ctx context.Context, key string, report models.AnalysisReport) {
	data, err := json.Marshal(report)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to encode analysis report for caching")
		return
	}

	if err := c.redis.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Analysis cache write failed")
		return
	}

	c.logger.WithFields(logrus.Fields{
		"commodity": report.Commodity,
		"threshold": report.Threshold,
		"ttl":       c.ttl,
	}).Debug("Cached analysis report")
}

// Clear removes all cached reports. Callers invalidate after upstream data
// changes so stale results are never served.
func (c *AnalysisCache) Clear(ctx context.Context) error {
	var keys []string
	iter := c.redis.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("error clearing cache: %w", err)
	}

	c.logger.WithField("entries", len(keys)).Info("Cleared analysis report cache")
	return nil
}
