package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/reviews"
)

// ListReviews returns all reviews with their average rating.
func (h *Handler) ListReviews(c *gin.Context) {
	summary, err := h.reviews.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
	})
}

// CreateReview stores a new review.
func (h *Handler) CreateReview(c *gin.Context) {
	var req reviews.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, reviews.ErrMissingFields) || errors.Is(err, reviews.ErrInvalidRating) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"review":  review,
	})
}

// MarkReviewHelpful counts a helpful vote.
func (h *Handler) MarkReviewHelpful(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid review ID"})
		return
	}

	review, err := h.reviews.MarkHelpful(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
	})
}
