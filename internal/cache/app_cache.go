package cache

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/ridewise/ridewise/internal/config"
	"github.com/ridewise/ridewise/internal/csvparse"
	"github.com/ridewise/ridewise/internal/fleet"
	"golang.org/x/sync/errgroup"
)

// Cache key prefixes.
const (
	FleetCachePrefix  = "fleet-"
	UploadCachePrefix = "upload-"
)

// FleetStatsKey is the key of the current fleet snapshot.
const FleetStatsKey = "stats"

// LatestUpload is the last parsed CSV of a user.
type LatestUpload struct {
	UploadID   string           `json:"uploadId"`
	FileName   string           `json:"fileName"`
	SizeBytes  int64            `json:"sizeBytes"`
	UploadedAt time.Time        `json:"uploadedAt"`
	Result     *csvparse.Result `json:"result"`
}

// AppCache bundles the caches used by the RideWise server.
type AppCache struct {
	FleetCache  *PrefixedCache[fleet.Stats]
	UploadCache *PrefixedCache[LatestUpload]

	fleetTTL time.Duration
}

// NewAppCache creates the caches with the configured store.
// The fleet snapshot lives for two simulator ticks.
func NewAppCache(cfg *config.CacheConfig, tickInterval time.Duration) *AppCache {
	return &AppCache{
		FleetCache: NewPrefixedCache[fleet.Stats](
			newCacheInstanceByType(cfg),
			cfg.Type,
			FleetCachePrefix,
		),
		UploadCache: NewPrefixedCache[LatestUpload](
			newCacheInstanceByType(cfg),
			cfg.Type,
			UploadCachePrefix,
		),
		fleetTTL: 2 * tickInterval,
	}
}

// SetFleetStats stores the fleet snapshot.
func (a *AppCache) SetFleetStats(ctx context.Context, stats fleet.Stats) error {
	return a.FleetCache.Set(ctx, FleetStatsKey, stats, store.WithExpiration(a.fleetTTL))
}

// GetFleetStats returns the cached fleet snapshot.
func (a *AppCache) GetFleetStats(ctx context.Context) (fleet.Stats, error) {
	return a.FleetCache.Get(ctx, FleetStatsKey)
}

// ClearAll empties every cache concurrently.
func (a *AppCache) ClearAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.FleetCache.Clear(ctx)
	})
	g.Go(func() error {
		return a.UploadCache.Clear(ctx)
	})
	if err := g.Wait(); err != nil {
		log.Errorf("failed to clear cache: %v", err)
		return err
	}
	return nil
}

type Stats struct {
	*codec.Stats
	CacheName string `json:"cacheName"`
}

func (a *AppCache) GetStats() []*Stats {
	return []*Stats{
		{
			Stats:     a.FleetCache.GetStats(),
			CacheName: "fleet-stats",
		},
		{
			Stats:     a.UploadCache.GetStats(),
			CacheName: "latest-uploads",
		},
	}
}
