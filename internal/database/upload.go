package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// UploadDB defines the CSV upload database operations.
type UploadDB interface {
	CreateUpload(ctx context.Context, upload *Upload) error
	GetUploadsByUser(ctx context.Context, userID uint, limit int) ([]Upload, error)
	DeleteUploadsOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Upload records the summary of a parsed CSV file.
// The raw file is never stored.
type Upload struct {
	gorm.Model
	PublicID     string `gorm:"uniqueIndex;not null"`
	UserID       *uint  `gorm:"index"`
	FileName     string
	SizeBytes    int64
	RowsReceived int
	RowsUsed     int
	InvalidRows  int
	TotalDemand  int
	PeakHour     *int
	PeakDay      string
}

func (c *Client) CreateUpload(ctx context.Context, upload *Upload) error {
	if err := c.db.WithContext(ctx).Create(upload).Error; err != nil {
		log.Error("failed to create upload", "error", err)
		return err
	}
	return nil
}

// GetUploadsByUser returns the newest uploads of a user. A limit <= 0 returns all of them.
func (c *Client) GetUploadsByUser(ctx context.Context, userID uint, limit int) ([]Upload, error) {
	var uploads []Upload
	query := c.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&uploads).Error; err != nil {
		log.Error("failed to get uploads by user", "error", err)
		return nil, err
	}
	return uploads, nil
}

// DeleteUploadsOlderThan permanently removes upload records created before the given time.
func (c *Client) DeleteUploadsOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := c.db.WithContext(ctx).Unscoped().Where("created_at < ?", before).Delete(&Upload{})
	if result.Error != nil {
		log.Error("failed to delete old uploads", "error", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
