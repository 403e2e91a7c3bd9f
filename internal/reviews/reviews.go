// Package reviews stores and summarises user ratings of the app.
package reviews

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/ridewise/ridewise/internal/database"
	"github.com/samber/lo"
)

var (
	ErrMissingFields  = errors.New("name and comment are required")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrReviewNotFound = errors.New("review not found")
)

// DefaultAvatar is used when a review is submitted without one.
const DefaultAvatar = "👤"

// CreateRequest is a new review.
type CreateRequest struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Avatar  string `json:"avatar,omitempty"`
}

// Summary is the list of reviews with the average rating.
type Summary struct {
	Reviews       []database.Review `json:"reviews"`
	Count         int               `json:"count"`
	AverageRating float64           `json:"averageRating"`
}

// Service manages reviews.
type Service struct {
	db database.ReviewDB
}

// New creates a new review service.
func New(db database.ReviewDB) *Service {
	return &Service{db: db}
}

// Create validates and stores a review.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*database.Review, error) {
	name := strings.TrimSpace(req.Name)
	comment := strings.TrimSpace(req.Comment)
	if name == "" || comment == "" {
		return nil, ErrMissingFields
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	review := &database.Review{
		Name:    name,
		Rating:  req.Rating,
		Comment: comment,
		Avatar:  lo.Ternary(req.Avatar != "", req.Avatar, DefaultAvatar),
	}
	if err := s.db.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// List returns all reviews, newest first, with the average rating rounded to one decimal.
func (s *Service) List(ctx context.Context) (*Summary, error) {
	reviews, err := s.db.GetReviews(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Reviews: reviews,
		Count:   len(reviews),
	}
	if len(reviews) > 0 {
		avg := lo.MeanBy(reviews, func(r database.Review) float64 { return float64(r.Rating) })
		summary.AverageRating = math.Round(avg*10) / 10
	}
	return summary, nil
}

// MarkHelpful increments the helpful counter of a review.
func (s *Service) MarkHelpful(ctx context.Context, id uint) (*database.Review, error) {
	review, err := s.db.IncrementReviewHelpful(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}
