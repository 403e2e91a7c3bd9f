package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ DB = (*Client)(nil) // Ensure Client implements DB

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = gorm.ErrDuplicatedKey
)

// DB is the storage used by the RideWise services.
type DB interface {
	UserDB
	BookingDB
	UploadDB
	ReviewDB
	Close() error
}

// Client wraps the gorm.DB instance.
type Client struct {
	db *gorm.DB
}

// New creates a new database connection and performs migrations.
// The demo reviews are seeded when the reviews table is empty.
func New(dbpath string) (*Client, error) {
	if dir := filepath.Dir(dbpath); dir != "" && dbpath != ":memory:" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbpath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Booking{},
		&Upload{},
		&Review{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	c := &Client{db: db}
	if err := c.seedReviews(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to seed reviews: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique index violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
