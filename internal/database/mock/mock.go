package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ridewise/ridewise/internal/database"
)

var _ database.DB = (*MockDB)(nil)

// ErrDuplicate mimics a unique constraint violation.
var ErrDuplicate = database.ErrDuplicate

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	// User storage
	users      map[uint]*database.User
	nextUserID uint

	// Booking storage
	bookings      map[uint]*database.Booking
	nextBookingID uint

	// Upload storage
	uploads      map[uint]*database.Upload
	nextUploadID uint

	// Review storage
	reviews      map[uint]*database.Review
	nextReviewID uint

	// Error simulation
	CreateUserError             error
	GetUserByUsernameError      error
	GetAllUsersError            error
	UpdateUserLastLoginError    error
	UpdateUserEmailError        error
	CreateBookingError          error
	GetBookingByCodeError       error
	GetBookingsByUserError      error
	CreateUploadError           error
	GetUploadsByUserError       error
	DeleteUploadsOlderThanError error
	CreateReviewError           error
	GetReviewsError             error
	IncrementReviewHelpfulError error
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	m := &MockDB{}
	m.Reset()
	return m
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[uint]*database.User)
	m.nextUserID = 1
	m.bookings = make(map[uint]*database.Booking)
	m.nextBookingID = 1
	m.uploads = make(map[uint]*database.Upload)
	m.nextUploadID = 1
	m.reviews = make(map[uint]*database.Review)
	m.nextReviewID = 1

	m.CreateUserError = nil
	m.GetUserByUsernameError = nil
	m.GetAllUsersError = nil
	m.UpdateUserLastLoginError = nil
	m.UpdateUserEmailError = nil
	m.CreateBookingError = nil
	m.GetBookingByCodeError = nil
	m.GetBookingsByUserError = nil
	m.CreateUploadError = nil
	m.GetUploadsByUserError = nil
	m.DeleteUploadsOlderThanError = nil
	m.CreateReviewError = nil
	m.GetReviewsError = nil
	m.IncrementReviewHelpfulError = nil
}

// SeedDemoReviews stores the same demo reviews a fresh sqlite database starts with.
func (m *MockDB) SeedDemoReviews() {
	for _, r := range database.DemoReviews() {
		_ = m.CreateReview(context.Background(), &r)
	}
}

// User operations

func (m *MockDB) CreateUser(ctx context.Context, user *database.User) error {
	if m.CreateUserError != nil {
		return m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return ErrDuplicate
		}
	}

	user.ID = m.nextUserID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.nextUserID++

	stored := *user
	m.users[user.ID] = &stored

	return nil
}

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	if m.GetUserByUsernameError != nil {
		return nil, m.GetUserByUsernameError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}

	return nil, database.ErrNotFound
}

func (m *MockDB) GetAllUsers(ctx context.Context) ([]database.User, error) {
	if m.GetAllUsersError != nil {
		return nil, m.GetAllUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]database.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})

	return users, nil
}

func (m *MockDB) UpdateUserLastLogin(ctx context.Context, userID uint, at time.Time) error {
	if m.UpdateUserLastLoginError != nil {
		return m.UpdateUserLastLoginError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return database.ErrNotFound
	}
	user.LastLoginAt = &at

	return nil
}

func (m *MockDB) UpdateUserEmail(ctx context.Context, userID uint, email string) error {
	if m.UpdateUserEmailError != nil {
		return m.UpdateUserEmailError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return database.ErrNotFound
	}
	user.Email = email

	return nil
}

// Booking operations

func (m *MockDB) CreateBooking(ctx context.Context, booking *database.Booking) error {
	if m.CreateBookingError != nil {
		return m.CreateBookingError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.Code == booking.Code {
			return ErrDuplicate
		}
	}

	booking.ID = m.nextBookingID
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	booking.UpdatedAt = booking.CreatedAt
	m.nextBookingID++

	stored := *booking
	m.bookings[booking.ID] = &stored

	return nil
}

func (m *MockDB) GetBookingByCode(ctx context.Context, code string) (*database.Booking, error) {
	if m.GetBookingByCodeError != nil {
		return nil, m.GetBookingByCodeError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.bookings {
		if b.Code == code {
			booking := *b
			return &booking, nil
		}
	}

	return nil, database.ErrNotFound
}

func (m *MockDB) GetBookingsByUser(ctx context.Context, userID uint) ([]database.Booking, error) {
	if m.GetBookingsByUserError != nil {
		return nil, m.GetBookingsByUserError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var bookings []database.Booking
	for _, b := range m.bookings {
		if b.UserID != nil && *b.UserID == userID {
			bookings = append(bookings, *b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].ID > bookings[j].ID
	})

	return bookings, nil
}

// Upload operations

func (m *MockDB) CreateUpload(ctx context.Context, upload *database.Upload) error {
	if m.CreateUploadError != nil {
		return m.CreateUploadError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	upload.ID = m.nextUploadID
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}
	upload.UpdatedAt = upload.CreatedAt
	m.nextUploadID++

	stored := *upload
	m.uploads[upload.ID] = &stored

	return nil
}

func (m *MockDB) GetUploadsByUser(ctx context.Context, userID uint, limit int) ([]database.Upload, error) {
	if m.GetUploadsByUserError != nil {
		return nil, m.GetUploadsByUserError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var uploads []database.Upload
	for _, u := range m.uploads {
		if u.UserID != nil && *u.UserID == userID {
			uploads = append(uploads, *u)
		}
	}
	sort.Slice(uploads, func(i, j int) bool {
		return uploads[i].ID > uploads[j].ID
	})
	if limit > 0 && len(uploads) > limit {
		uploads = uploads[:limit]
	}

	return uploads, nil
}

func (m *MockDB) DeleteUploadsOlderThan(ctx context.Context, before time.Time) (int64, error) {
	if m.DeleteUploadsOlderThanError != nil {
		return 0, m.DeleteUploadsOlderThanError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for id, u := range m.uploads {
		if u.CreatedAt.Before(before) {
			delete(m.uploads, id)
			deleted++
		}
	}

	return deleted, nil
}

// Review operations

func (m *MockDB) CreateReview(ctx context.Context, review *database.Review) error {
	if m.CreateReviewError != nil {
		return m.CreateReviewError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if review.Date.IsZero() {
		review.Date = time.Now()
	}
	review.ID = m.nextReviewID
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	m.nextReviewID++

	stored := *review
	m.reviews[review.ID] = &stored

	return nil
}

func (m *MockDB) GetReviews(ctx context.Context) ([]database.Review, error) {
	if m.GetReviewsError != nil {
		return nil, m.GetReviewsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	reviews := make([]database.Review, 0, len(m.reviews))
	for _, r := range m.reviews {
		reviews = append(reviews, *r)
	}
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].Date.Equal(reviews[j].Date) {
			return reviews[i].Date.After(reviews[j].Date)
		}
		return reviews[i].ID > reviews[j].ID
	})

	return reviews, nil
}

func (m *MockDB) IncrementReviewHelpful(ctx context.Context, id uint) (*database.Review, error) {
	if m.IncrementReviewHelpfulError != nil {
		return nil, m.IncrementReviewHelpfulError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	review, ok := m.reviews[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	review.Helpful++

	r := *review
	return &r, nil
}

func (m *MockDB) Close() error {
	return nil
}
