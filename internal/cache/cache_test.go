package cache

import (
	"context"
	"testing"
	"time"

	"github.com/ridewise/ridewise/internal/config"
	"github.com/ridewise/ridewise/internal/csvparse"
	"github.com/ridewise/ridewise/internal/fleet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache() *AppCache {
	return NewAppCache(&config.CacheConfig{Type: config.CacheTypeMemory}, time.Second)
}

func TestPrefixedCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewPrefixedCache[map[string]int](newMemoryCache[any](), config.CacheTypeMemory, "test-")

	require.NoError(t, c.Set(ctx, 1, map[string]int{"a": 1}))
	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1}, got)

	require.NoError(t, c.Delete(ctx, 1))
	_, err = c.Get(ctx, 1)
	assert.Error(t, err)

	assert.Equal(t, config.CacheTypeMemory, c.GetType())
}

func TestAppCache_FleetStats(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()

	_, err := c.GetFleetStats(ctx)
	assert.Error(t, err, "empty cache misses")

	stats := fleet.Stats{Total: 847, Rented: 324, Available: 523, UpdatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, c.SetFleetStats(ctx, stats))

	got, err := c.GetFleetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}

func TestAppCache_FleetStatsExpire(t *testing.T) {
	ctx := context.Background()
	c := NewAppCache(&config.CacheConfig{Type: config.CacheTypeMemory}, 10*time.Millisecond)

	require.NoError(t, c.SetFleetStats(ctx, fleet.Stats{Total: 900}))
	assert.Eventually(t, func() bool {
		_, err := c.GetFleetStats(ctx)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestAppCache_UploadsAndClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()

	upload := LatestUpload{
		UploadID: "abc",
		FileName: "hour.csv",
		Result:   &csvparse.Result{TotalDemand: 42, HourlyDemand: map[string]int{"8": 42}},
	}
	require.NoError(t, c.UploadCache.Set(ctx, uint(7), upload))
	require.NoError(t, c.SetFleetStats(ctx, fleet.Stats{Total: 850}))

	got, err := c.UploadCache.Get(ctx, uint(7))
	require.NoError(t, err)
	assert.Equal(t, 42, got.Result.TotalDemand)

	require.NoError(t, c.ClearAll(ctx))

	_, err = c.UploadCache.Get(ctx, uint(7))
	assert.Error(t, err)
	_, err = c.GetFleetStats(ctx)
	assert.Error(t, err)
}

func TestAppCache_GetStats(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()

	require.NoError(t, c.SetFleetStats(ctx, fleet.Stats{Total: 850}))
	_, err := c.GetFleetStats(ctx)
	require.NoError(t, err)

	stats := c.GetStats()
	require.Len(t, stats, 2)
	assert.Equal(t, "fleet-stats", stats[0].CacheName)
	assert.Equal(t, 1, stats[0].Hits)
	assert.Equal(t, 1, stats[0].SetSuccess)
	assert.Equal(t, "latest-uploads", stats[1].CacheName)
}
