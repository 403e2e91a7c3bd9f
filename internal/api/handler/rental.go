package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/rental"
)

// RentalBikes returns the bike catalogue.
func (h *Handler) RentalBikes(c *gin.Context) {
	bikes := h.rental.Bikes()
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"bikes":          bikes,
		"totalAvailable": rental.TotalAvailable(bikes),
	})
}

// CreateBooking books a bike for the current user.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req rental.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	user, ok := h.requireDBUser(c)
	if !ok {
		return
	}

	receipt, err := h.rental.Book(c.Request.Context(), user, req)
	if err != nil {
		c.JSON(bookingErrorStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"receipt": receipt,
	})
}

// ListBookings returns the bookings of the current user.
func (h *Handler) ListBookings(c *gin.Context) {
	user, ok := h.requireDBUser(c)
	if !ok {
		return
	}

	receipts, err := h.rental.List(c.Request.Context(), user)
	if err != nil {
		log.Error("Failed to list bookings", "username", user.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": receipts,
	})
}

// GetBooking returns a booking by its id.
func (h *Handler) GetBooking(c *gin.Context) {
	receipt, err := h.rental.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(bookingErrorStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"receipt": receipt,
	})
}

func bookingErrorStatus(err error) int {
	switch {
	case errors.Is(err, rental.ErrMissingField), errors.Is(err, rental.ErrInvalidPickup),
		errors.Is(err, rental.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, rental.ErrBikeNotFound), errors.Is(err, rental.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, rental.ErrBikeUnavailable):
		return http.StatusConflict
	default:
		log.Error("Booking request failed", "error", err)
		return http.StatusInternalServerError
	}
}
