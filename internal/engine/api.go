package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/ridewise/ridewise/internal/cache"
	"github.com/ridewise/ridewise/internal/csvparse"
	"github.com/ridewise/ridewise/internal/database"
	"github.com/ridewise/ridewise/internal/fleet"
)

// Dashboard is everything the dashboard page shows.
type Dashboard struct {
	Stats   fleet.Stats    `json:"stats"`
	Metrics []fleet.Metric `json:"metrics"`
	Alerts  []fleet.Alert  `json:"alerts"`
	Actions []fleet.Action `json:"actions"`
}

// FleetStats returns the cached fleet snapshot, falling back to the simulator.
func (e *Engine) FleetStats(ctx context.Context) fleet.Stats {
	stats, err := e.cache.GetFleetStats(ctx)
	if err == nil {
		return stats
	}
	log.Debug("Fleet cache miss", "error", err)
	return e.simulator.Snapshot()
}

// GetDashboard assembles the dashboard for the current moment.
func (e *Engine) GetDashboard(ctx context.Context) Dashboard {
	stats := e.FleetStats(ctx)
	now := e.now()
	return Dashboard{
		Stats:   stats,
		Metrics: fleet.Metrics(stats, now),
		Alerts:  fleet.Alerts(fleet.Stations(), e.cfg.Fleet.LowInventoryThreshold, now),
		Actions: fleet.Actions(),
	}
}

func (e *Engine) currentAlerts() []fleet.Alert {
	return fleet.Alerts(fleet.Stations(), e.cfg.Fleet.LowInventoryThreshold, e.now())
}

// RecordUpload stores the summary of a parsed CSV. Uploads of signed in users
// are also cached as their latest upload.
func (e *Engine) RecordUpload(ctx context.Context, user *database.User, fileName string, size int64, result *csvparse.Result) (*cache.LatestUpload, error) {
	upload := &database.Upload{
		PublicID:     uuid.NewString(),
		FileName:     fileName,
		SizeBytes:    size,
		RowsReceived: result.RowsReceived,
		RowsUsed:     result.RowsUsed,
		InvalidRows:  result.InvalidRows,
		TotalDemand:  result.TotalDemand,
	}
	if result.PeakHour != nil {
		hour := result.PeakHour.Hour
		upload.PeakHour = &hour
	}
	if result.PeakDay != nil {
		upload.PeakDay = result.PeakDay.Date
	}
	if user != nil {
		upload.UserID = &user.ID
	}

	if err := e.db.CreateUpload(ctx, upload); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	latest := &cache.LatestUpload{
		UploadID:   upload.PublicID,
		FileName:   fileName,
		SizeBytes:  size,
		UploadedAt: e.now(),
		Result:     result,
	}
	if user != nil {
		if err := e.cache.UploadCache.Set(ctx, uploadCacheKey(user), *latest); err != nil {
			log.Warn("Failed to cache latest upload", "user", user.Username, "error", err)
		}
	}
	return latest, nil
}

// LatestUpload returns the last upload parsed in this process for user.
func (e *Engine) LatestUpload(ctx context.Context, user *database.User) (*cache.LatestUpload, bool) {
	latest, err := e.cache.UploadCache.Get(ctx, uploadCacheKey(user))
	if err != nil {
		return nil, false
	}
	return &latest, true
}

// Uploads lists the stored upload summaries of a user, newest first.
func (e *Engine) Uploads(ctx context.Context, user *database.User, limit int) ([]database.Upload, error) {
	return e.db.GetUploadsByUser(ctx, user.ID, limit)
}

func uploadCacheKey(user *database.User) string {
	return strconv.FormatUint(uint64(user.ID), 10)
}
