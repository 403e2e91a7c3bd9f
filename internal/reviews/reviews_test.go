package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/ridewise/ridewise/internal/database/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_List(t *testing.T) {
	db := mock.NewMockDB()
	db.SeedDemoReviews()
	s := New(db)

	summary, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 4.7, summary.AverageRating)
	assert.Equal(t, "Anjali Desai", summary.Reviews[0].Name)
}

func TestService_ListEmpty(t *testing.T) {
	summary, err := New(mock.NewMockDB()).List(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.AverageRating)
}

func TestService_Create(t *testing.T) {
	db := mock.NewMockDB()
	s := New(db)
	ctx := context.Background()

	review, err := s.Create(ctx, CreateRequest{Name: " Kiran ", Rating: 4, Comment: "Useful forecasts"})
	require.NoError(t, err)
	assert.Equal(t, "Kiran", review.Name)
	assert.Equal(t, DefaultAvatar, review.Avatar)
	assert.False(t, review.Date.IsZero())

	_, err = s.Create(ctx, CreateRequest{Name: "", Rating: 4, Comment: "x"})
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = s.Create(ctx, CreateRequest{Name: "a", Rating: 4, Comment: " "})
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = s.Create(ctx, CreateRequest{Name: "a", Rating: 0, Comment: "x"})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = s.Create(ctx, CreateRequest{Name: "a", Rating: 6, Comment: "x"})
	assert.ErrorIs(t, err, ErrInvalidRating)

	db.CreateReviewError = errors.New("db down")
	_, err = s.Create(ctx, CreateRequest{Name: "a", Rating: 5, Comment: "x"})
	assert.EqualError(t, err, "db down")
}

func TestService_MarkHelpful(t *testing.T) {
	db := mock.NewMockDB()
	db.SeedDemoReviews()
	s := New(db)
	ctx := context.Background()

	review, err := s.MarkHelpful(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 13, review.Helpful)

	_, err = s.MarkHelpful(ctx, 99)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
