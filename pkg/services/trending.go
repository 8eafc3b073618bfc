package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	trendingKey       = "claims:views"
	trendingWindow    = 24 * time.Hour
	trendingThreshold = 10
)

// TrendingTracker derives the is_trending flag from recent claim views.
// View counts live in a Redis sorted set whose scores decay by key expiry;
// the claim store itself is never written by this path. Losing Redis loses
// nothing but the trending signal.
type TrendingTracker struct {
	client *redis.Client
	logger *zap.Logger
}

// NewTrendingTracker creates a tracker over the given Redis client.
// Returns nil when the client is nil so callers can treat trending as
// disabled.
func NewTrendingTracker(client *redis.Client, logger *zap.Logger) *TrendingTracker {
	if client == nil {
		return nil
	}
	return &TrendingTracker{client: client, logger: logger}
}

// RecordView increments the claim's view counter. Failures are logged and
// swallowed; view tracking must never fail a read path.
func (t *TrendingTracker) RecordView(ctx context.Context, claimID uuid.UUID) {
	pipe := t.client.TxPipeline()
	pipe.ZIncrBy(ctx, trendingKey, 1, claimID.String())
	pipe.Expire(ctx, trendingKey, trendingWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Warn("Failed to record claim view", zap.Error(err))
	}
}

// IsTrending reports whether the claim's recent view count crosses the
// trending threshold.
func (t *TrendingTracker) IsTrending(ctx context.Context, claimID uuid.UUID) bool {
	score, err := t.client.ZScore(ctx, trendingKey, claimID.String()).Result()
	if err != nil {
		return false
	}
	return score >= trendingThreshold
}

// TopClaims returns the IDs of the most-viewed claims, highest first.
func (t *TrendingTracker) TopClaims(ctx context.Context, limit int) ([]uuid.UUID, error) {
	members, err := t.client.ZRevRange(ctx, trendingKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read trending claims: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
