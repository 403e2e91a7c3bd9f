package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// ReviewDB defines the review database operations.
type ReviewDB interface {
	CreateReview(ctx context.Context, review *Review) error
	GetReviews(ctx context.Context) ([]Review, error)
	IncrementReviewHelpful(ctx context.Context, id uint) (*Review, error)
}

// Review is a user rating of the app.
type Review struct {
	gorm.Model
	Name    string `gorm:"not null"`
	Rating  int    `gorm:"not null"`
	Comment string `gorm:"not null"`
	Avatar  string
	Date    time.Time `gorm:"index"`
	Helpful int       `gorm:"default:0"`
}

var demoReviews = []Review{
	{
		Name:    "Priya Sharma",
		Rating:  5,
		Comment: "Amazing hourly prediction accuracy! The weather integration makes it super practical for fleet management.",
		Avatar:  "👩‍💼",
		Date:    time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		Helpful: 12,
	},
	{
		Name:    "Rohan Patil",
		Rating:  4,
		Comment: "Great UI and intuitive sliders. Would love export to PDF feature for presentations.",
		Avatar:  "👨‍💻",
		Date:    time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC),
		Helpful: 8,
	},
	{
		Name:    "Anjali Desai",
		Rating:  5,
		Comment: "Perfect for hackathons! The glassmorphism design impressed judges. Working day/weekend toggle is genius.",
		Avatar:  "👩‍🎓",
		Date:    time.Date(2026, time.January, 19, 0, 0, 0, 0, time.UTC),
		Helpful: 15,
	},
}

// DemoReviews returns a copy of the reviews seeded into an empty database.
func DemoReviews() []Review {
	out := make([]Review, len(demoReviews))
	copy(out, demoReviews)
	return out
}

func (c *Client) seedReviews(ctx context.Context) error {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Review{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	reviews := DemoReviews()
	if err := c.db.WithContext(ctx).Create(&reviews).Error; err != nil {
		return err
	}
	log.Debug("seeded demo reviews", "count", len(reviews))
	return nil
}

func (c *Client) CreateReview(ctx context.Context, review *Review) error {
	if review.Date.IsZero() {
		review.Date = time.Now()
	}
	if err := c.db.WithContext(ctx).Create(review).Error; err != nil {
		log.Error("failed to create review", "error", err)
		return err
	}
	return nil
}

// GetReviews returns all reviews, newest first.
func (c *Client) GetReviews(ctx context.Context) ([]Review, error) {
	var reviews []Review
	if err := c.db.WithContext(ctx).Order("date DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		log.Error("failed to get reviews", "error", err)
		return nil, err
	}
	return reviews, nil
}

func (c *Client) IncrementReviewHelpful(ctx context.Context, id uint) (*Review, error) {
	result := c.db.WithContext(ctx).Model(&Review{}).Where("id = ?", id).
		UpdateColumn("helpful", gorm.Expr("helpful + ?", 1))
	if result.Error != nil {
		log.Error("failed to increment review helpful count", "error", result.Error)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var review Review
	if err := c.db.WithContext(ctx).First(&review, id).Error; err != nil {
		log.Error("failed to reload review", "error", err)
		return nil, err
	}
	return &review, nil
}
