//go:build integration

package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/factlens-inc/factlens-engine/pkg/testhelpers"
)

// newTestTracker connects to the shared Redis container on a scratch DB and
// clears it so each test starts from an empty sorted set.
func newTestTracker(t *testing.T) (*TrendingTracker, *redis.Client) {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: testhelpers.GetRedisAddr(t),
		DB:   9,
	})
	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to flush test database: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return NewTrendingTracker(client, zap.NewNop()), client
}

func TestTrendingTracker_Threshold(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()
	claimID := uuid.New()

	for i := 0; i < trendingThreshold-1; i++ {
		tracker.RecordView(ctx, claimID)
	}
	assert.False(t, tracker.IsTrending(ctx, claimID))

	tracker.RecordView(ctx, claimID)
	assert.True(t, tracker.IsTrending(ctx, claimID))
}

func TestTrendingTracker_UnseenClaim(t *testing.T) {
	tracker, _ := newTestTracker(t)

	assert.False(t, tracker.IsTrending(context.Background(), uuid.New()))
}

func TestTrendingTracker_TopClaims(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	hot := uuid.New()
	warm := uuid.New()
	cold := uuid.New()
	views := map[uuid.UUID]int{hot: 5, warm: 3, cold: 1}
	for id, n := range views {
		for i := 0; i < n; i++ {
			tracker.RecordView(ctx, id)
		}
	}

	ids, err := tracker.TopClaims(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{hot, warm}, ids)
}

func TestTrendingTracker_TopClaims_SkipsUnparseableMembers(t *testing.T) {
	tracker, client := newTestTracker(t)
	ctx := context.Background()

	claimID := uuid.New()
	tracker.RecordView(ctx, claimID)
	require.NoError(t, client.ZAdd(ctx, trendingKey, redis.Z{Score: 100, Member: "not-a-claim-id"}).Err())

	ids, err := tracker.TopClaims(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{claimID}, ids)
}

func TestTrendingTracker_ViewKeyExpires(t *testing.T) {
	tracker, client := newTestTracker(t)
	ctx := context.Background()

	tracker.RecordView(ctx, uuid.New())

	ttl, err := client.TTL(ctx, trendingKey).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= trendingWindow)
}
