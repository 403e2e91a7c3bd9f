package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/api/models"
	"github.com/ridewise/ridewise/internal/notify/webpush"
)

// SubscribeRequest represents the request body for push notification subscription.
type SubscribeRequest struct {
	Subscription struct {
		Endpoint string `json:"endpoint"`
		Keys     struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		} `json:"keys"`
	} `json:"subscription"`
}

// WebPushHandler handles webpush-related API endpoints.
type WebPushHandler struct {
	webpush *webpush.Client
}

// NewWebPushHandler creates a new webpush API handler.
func NewWebPushHandler(webpushClient *webpush.Client) *WebPushHandler {
	return &WebPushHandler{
		webpush: webpushClient,
	}
}

func (h *WebPushHandler) unavailable(c *gin.Context) bool {
	if h.webpush == nil || !h.webpush.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "webpush is not configured",
		})
		return true
	}
	return false
}

// GetVAPIDKey returns the VAPID public key for client subscription.
func (h *WebPushHandler) GetVAPIDKey(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	publicKey := h.webpush.GetPublicKey()
	if publicKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "VAPID public key not available",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"publicKey": publicKey,
	})
}

// Subscribe registers a browser for fleet alerts of the current user.
func (h *WebPushHandler) Subscribe(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid subscription data",
		})
		return
	}

	user := c.MustGet(models.ContextUserKey).(*models.User)

	subscription := &webpush.Subscription{
		Endpoint:  req.Subscription.Endpoint,
		UserAgent: c.GetHeader("User-Agent"),
	}
	subscription.Keys.P256dh = req.Subscription.Keys.P256dh
	subscription.Keys.Auth = req.Subscription.Keys.Auth

	if err := h.webpush.Subscribe(user.Username, subscription); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, webpush.ErrInvalidEndpoint) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "successfully subscribed to push notifications",
		"subscription_id": subscription.ID,
	})
}

// Unsubscribe removes one subscription when an endpoint is given, otherwise all of the user's.
func (h *WebPushHandler) Unsubscribe(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	var request struct {
		Endpoint string `json:"endpoint"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid request data",
			})
			return
		}
	}

	user := c.MustGet(models.ContextUserKey).(*models.User)

	if request.Endpoint == "" {
		h.webpush.Unsubscribe(user.Username)
	} else if !h.webpush.UnsubscribeByEndpoint(user.Username, request.Endpoint) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "subscription not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "successfully unsubscribed from push notifications",
	})
}
