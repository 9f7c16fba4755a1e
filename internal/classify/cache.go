package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sleepcoach/backend/internal/metrics"
	"github.com/sleepcoach/backend/pkg/logger"
	"github.com/sleepcoach/backend/pkg/utils"
)

// CachedClassifier wraps another classifier with a redis cache. Feeding
// notes repeat verbatim day to day, so successful classifications are
// kept for a week. Cache trouble is logged and bypassed; it never blocks
// a classification.
type CachedClassifier struct {
	inner  Classifier
	client *redis.Client
	ttl    time.Duration
}

func NewCachedClassifier(inner Classifier, host string, port int, password string, db int, ttl time.Duration) (*CachedClassifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Classification cache initialized",
		zap.String("addr", fmt.Sprintf("%s:%d", host, port)),
		zap.Duration("ttl", ttl),
	)

	return &CachedClassifier{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}, nil
}

func (c *CachedClassifier) Close() error {
	return c.client.Close()
}

func (c *CachedClassifier) Classify(ctx context.Context, text string) Classification {
	key := cacheKey(text)

	if result, ok := c.get(ctx, key); ok {
		metrics.ClassifierCalls.WithLabelValues("cache_hit").Inc()
		result.RawText = text
		return result
	}

	result := c.inner.Classify(ctx, text)
	if result.AIClassified {
		c.set(ctx, key, result)
	}

	return result
}

func (c *CachedClassifier) ClassifyBatch(ctx context.Context, texts []string) []Classification {
	results := make([]Classification, len(texts))

	missing := make([]string, 0, len(texts))
	missingIdx := make([]int, 0, len(texts))

	for i, text := range texts {
		if result, ok := c.get(ctx, cacheKey(text)); ok {
			metrics.ClassifierCalls.WithLabelValues("cache_hit").Inc()
			result.RawText = text
			results[i] = result
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return results
	}

	fresh := c.inner.ClassifyBatch(ctx, missing)
	for j, result := range fresh {
		results[missingIdx[j]] = result
		if result.AIClassified {
			c.set(ctx, cacheKey(missing[j]), result)
		}
	}

	return results
}

func (c *CachedClassifier) get(ctx context.Context, key string) (Classification, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return Classification{}, false
	}
	if err != nil {
		logger.Debug("Classification cache read failed", zap.Error(err))
		return Classification{}, false
	}

	var result Classification
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Debug("Corrupt classification cache entry", zap.Error(err))
		return Classification{}, false
	}

	return result, true
}

func (c *CachedClassifier) set(ctx context.Context, key string, result Classification) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Debug("Classification cache write failed", zap.Error(err))
	}
}

func cacheKey(text string) string {
	return fmt.Sprintf("food:%s", utils.HashString(utils.NormalizeText(text)))
}
