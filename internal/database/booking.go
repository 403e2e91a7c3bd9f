package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// BookingDB defines the rental booking database operations.
type BookingDB interface {
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByCode(ctx context.Context, code string) (*Booking, error)
	GetBookingsByUser(ctx context.Context, userID uint) ([]Booking, error)
}

// Booking is a confirmed bike rental.
type Booking struct {
	gorm.Model
	// Code is the public booking id, e.g. RIDE123456.
	Code          string `gorm:"uniqueIndex;not null"`
	UserID        *uint  `gorm:"index"`
	BikeID        int    `gorm:"not null"`
	BikeName      string `gorm:"not null"`
	CustomerName  string `gorm:"not null"`
	Phone         string `gorm:"not null"`
	PickupDate    string
	PickupTime    string
	DurationHours int `gorm:"not null"`
	PricePerHour  int `gorm:"not null"`
	Total         int `gorm:"not null"`
}

func (c *Client) CreateBooking(ctx context.Context, booking *Booking) error {
	if err := c.db.WithContext(ctx).Create(booking).Error; err != nil {
		log.Error("failed to create booking", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetBookingByCode(ctx context.Context, code string) (*Booking, error) {
	var booking Booking
	if err := c.db.WithContext(ctx).Where("code = ?", code).First(&booking).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get booking by code", "error", err)
		}
		return nil, err
	}
	return &booking, nil
}

func (c *Client) GetBookingsByUser(ctx context.Context, userID uint) ([]Booking, error) {
	var bookings []Booking
	if err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		log.Error("failed to get bookings by user", "error", err)
		return nil, err
	}
	return bookings, nil
}
