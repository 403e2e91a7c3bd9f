// Package rental implements bike booking against the demo catalogue.
package rental

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
	"github.com/ridewise/ridewise/internal/database"
	"github.com/ridewise/ridewise/internal/notify/email"
)

var (
	ErrMissingField    = errors.New("bike, name, phone, pickup date and pickup time are required")
	ErrInvalidPickup   = errors.New("invalid pickup date or time")
	ErrBikeNotFound    = errors.New("bike not found")
	ErrBikeUnavailable = errors.New("bike is not available")
	ErrInvalidDuration = errors.New("invalid rental duration")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNoFreeCode      = errors.New("no free booking code available")
)

const (
	codePrefix       = "RIDE"
	pickupTimeLayout = "15:04"
	// maxCodeAttempts bounds the search for a free booking code.
	maxCodeAttempts = 1000
)

// ReceiptSender delivers booking receipts.
type ReceiptSender interface {
	Enabled() bool
	SendBookingReceipt(receipt email.BookingReceipt) error
}

// BookRequest is a booking as submitted by the user.
type BookRequest struct {
	BikeID     int    `json:"bikeId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	PickupDate string `json:"pickupDate"`
	PickupTime string `json:"pickupTime"`
	Duration   int    `json:"duration"`
}

// Receipt is the confirmation shown after a booking.
type Receipt struct {
	BookingID  string    `json:"bookingId"`
	Bike       Bike      `json:"bike"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	PickupDate string    `json:"pickupDate"`
	PickupTime string    `json:"pickupTime"`
	Duration   int       `json:"duration"`
	Total      int       `json:"total"`
	TotalText  string    `json:"totalText"`
	BookedAt   time.Time `json:"bookedAt"`
	BookedAgo  string    `json:"bookedAgo"`
}

// Service books bikes.
type Service struct {
	db          database.BookingDB
	sender      ReceiptSender
	bikes       []Bike
	currency    string
	maxDuration int
	serverURL   string
	now         func() time.Time
}

// Options configure the rental service.
type Options struct {
	Currency         string
	MaxDurationHours int
	ServerURL        string
}

// New creates a new rental service. sender may be nil.
func New(db database.BookingDB, sender ReceiptSender, opts Options) *Service {
	return &Service{
		db:          db,
		sender:      sender,
		bikes:       Catalogue(),
		currency:    opts.Currency,
		maxDuration: opts.MaxDurationHours,
		serverURL:   opts.ServerURL,
		now:         time.Now,
	}
}

// Bikes returns the catalogue.
func (s *Service) Bikes() []Bike {
	out := make([]Bike, len(s.bikes))
	copy(out, s.bikes)
	return out
}

// Book validates and persists a booking for user, then emails the receipt.
// user may be nil for anonymous bookings.
func (s *Service) Book(ctx context.Context, user *database.User, req BookRequest) (*Receipt, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.PickupDate = strings.TrimSpace(req.PickupDate)
	req.PickupTime = strings.TrimSpace(req.PickupTime)
	if req.BikeID == 0 || req.Name == "" || req.Phone == "" || req.PickupDate == "" || req.PickupTime == "" {
		return nil, ErrMissingField
	}
	if _, err := time.Parse(time.DateOnly, req.PickupDate); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidPickup)
	}
	if _, err := time.Parse(pickupTimeLayout, req.PickupTime); err != nil {
		return nil, fmt.Errorf("%w: time must be HH:MM", ErrInvalidPickup)
	}

	bike, ok := FindBike(s.bikes, req.BikeID)
	if !ok {
		return nil, ErrBikeNotFound
	}
	if bike.Available <= 0 {
		return nil, ErrBikeUnavailable
	}

	if req.Duration == 0 {
		req.Duration = 1
	}
	if req.Duration < 1 || req.Duration > s.maxDuration {
		return nil, fmt.Errorf("%w: must be between 1 and %d hours", ErrInvalidDuration, s.maxDuration)
	}

	now := s.now()
	booking := &database.Booking{
		BikeID:        bike.ID,
		BikeName:      bike.Name,
		CustomerName:  req.Name,
		Phone:         req.Phone,
		PickupDate:    req.PickupDate,
		PickupTime:    req.PickupTime,
		DurationHours: req.Duration,
		PricePerHour:  bike.Price,
		Total:         bike.Price * req.Duration,
	}
	booking.CreatedAt = now
	if user != nil {
		booking.UserID = &user.ID
	}

	// A concurrent booking can take the code between the lookup and the insert,
	// so a unique index violation moves on to the next millisecond.
	for offset := 0; ; offset++ {
		code, next, err := s.nextCode(ctx, now, offset)
		if err != nil {
			return nil, err
		}
		offset = next
		booking.Code = code

		err = s.db.CreateBooking(ctx, booking)
		if err == nil {
			break
		}
		if !database.IsDuplicate(err) {
			return nil, fmt.Errorf("failed to store booking: %w", err)
		}
		log.Debug("Booking code taken by a concurrent booking, retrying", "code", code)
	}
	code := booking.Code
	log.Info("Bike booked", "booking", code, "bike", bike.Name, "hours", req.Duration, "total", booking.Total)

	receipt := s.receipt(booking, now)
	if user != nil {
		s.sendReceipt(user, receipt)
	}
	return &receipt, nil
}

// List returns the bookings of a user, newest first.
func (s *Service) List(ctx context.Context, user *database.User) ([]Receipt, error) {
	bookings, err := s.db.GetBookingsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	receipts := make([]Receipt, 0, len(bookings))
	for i := range bookings {
		receipts = append(receipts, s.receipt(&bookings[i], now))
	}
	return receipts, nil
}

// Get returns a single booking by its public id.
func (s *Service) Get(ctx context.Context, code string) (*Receipt, error) {
	booking, err := s.db.GetBookingByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	receipt := s.receipt(booking, s.now())
	return &receipt, nil
}

// FormatTotal renders an amount with the configured currency symbol.
func (s *Service) FormatTotal(amount int) string {
	return s.currency + humanize.Comma(int64(amount))
}

// BookingCode derives the public booking id from a timestamp.
func BookingCode(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return codePrefix + ms
}

// nextCode returns the first free code at or after now plus offset milliseconds,
// along with the offset it was found at.
func (s *Service) nextCode(ctx context.Context, now time.Time, offset int) (string, int, error) {
	for i := offset; i < maxCodeAttempts; i++ {
		code := BookingCode(now.Add(time.Duration(i) * time.Millisecond))
		_, err := s.db.GetBookingByCode(ctx, code)
		if database.IsNotFound(err) {
			return code, i, nil
		}
		if err != nil {
			return "", 0, fmt.Errorf("failed to check booking code: %w", err)
		}
		log.Debug("Booking code taken, retrying", "code", code)
	}
	return "", 0, ErrNoFreeCode
}

func (s *Service) receipt(b *database.Booking, now time.Time) Receipt {
	bike, ok := FindBike(s.bikes, b.BikeID)
	if !ok {
		bike = Bike{ID: b.BikeID, Name: b.BikeName}
	}
	bike.Price = b.PricePerHour

	return Receipt{
		BookingID:  b.Code,
		Bike:       bike,
		Name:       b.CustomerName,
		Phone:      b.Phone,
		PickupDate: b.PickupDate,
		PickupTime: b.PickupTime,
		Duration:   b.DurationHours,
		Total:      b.Total,
		TotalText:  s.FormatTotal(b.Total),
		BookedAt:   b.CreatedAt,
		BookedAgo:  timediff.TimeDiff(b.CreatedAt, timediff.WithStartTime(now)),
	}
}

func (s *Service) sendReceipt(user *database.User, r Receipt) {
	if s.sender == nil || !s.sender.Enabled() || user.Email == "" {
		return
	}
	hours := "hour"
	if r.Duration > 1 {
		hours = "hours"
	}
	err := s.sender.SendBookingReceipt(email.BookingReceipt{
		UserEmail:   user.Email,
		UserName:    r.Name,
		BookingID:   r.BookingID,
		BikeName:    r.Bike.Name,
		PickupDate:  r.PickupDate,
		PickupTime:  r.PickupTime,
		Duration:    fmt.Sprintf("%d %s", r.Duration, hours),
		Total:       r.TotalText,
		BookedAt:    r.BookedAt,
		RideWiseURL: s.serverURL,
	})
	if err != nil {
		log.Error("Failed to send booking receipt", "booking", r.BookingID, "error", err)
	}
}
