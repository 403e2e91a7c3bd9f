package models

import (
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
	"github.com/ridewise/ridewise/internal/database"
	"github.com/samber/lo"
)

// ToUploadSummaries converts stored uploads for display.
func ToUploadSummaries(uploads []database.Upload, now time.Time) []UploadSummary {
	return lo.Map(uploads, func(u database.Upload, _ int) UploadSummary {
		return ToUploadSummary(u, now)
	})
}

// ToUploadSummary converts a single stored upload.
func ToUploadSummary(u database.Upload, now time.Time) UploadSummary {
	size, err := safecast.Convert[uint64](u.SizeBytes)
	if err != nil {
		size = 0
	}
	return UploadSummary{
		ID:           u.PublicID,
		FileName:     u.FileName,
		Size:         humanize.Bytes(size),
		RowsReceived: u.RowsReceived,
		RowsUsed:     u.RowsUsed,
		InvalidRows:  u.InvalidRows,
		TotalDemand:  u.TotalDemand,
		PeakHour:     u.PeakHour,
		PeakDay:      u.PeakDay,
		UploadedAt:   u.CreatedAt,
		UploadedAgo:  timediff.TimeDiff(u.CreatedAt, timediff.WithStartTime(now)),
	}
}
