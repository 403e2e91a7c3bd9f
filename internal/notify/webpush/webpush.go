package webpush

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/ridewise/ridewise/internal/config"
	"github.com/ridewise/ridewise/internal/fleet"
	"github.com/samber/lo"
)

var (
	ErrDisabled        = errors.New("webpush notifications are disabled")
	ErrInvalidEndpoint = errors.New("subscription endpoint and keys are required")
)

type sendFunc func(ctx context.Context, message []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error)

// Client keeps push subscriptions in memory and delivers notifications to them.
type Client struct {
	config        *config.WebPushConfig
	subscriptions map[string]map[string]*Subscription // username -> subscriptionID -> subscription
	mu            sync.RWMutex
	send          sendFunc
}

// Subscription represents a push subscription.
type Subscription struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
	CreatedAt time.Time `json:"created_at"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// NotificationPayload represents the payload sent to the browser.
type NotificationPayload struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Icon  string         `json:"icon"`
	Badge string         `json:"badge"`
	Data  map[string]any `json:"data"`
}

// NewClient creates a new webpush client.
func NewClient(cfg *config.WebPushConfig) *Client {
	return &Client{
		config:        cfg,
		subscriptions: make(map[string]map[string]*Subscription),
		send:          webpush.SendNotificationWithContext,
	}
}

// GenerateVAPIDKeys generates a new VAPID key pair.
func GenerateVAPIDKeys() (privateKey, publicKey string, err error) {
	return webpush.GenerateVAPIDKeys()
}

// Enabled reports whether push notifications are configured.
func (c *Client) Enabled() bool {
	return c.config != nil && c.config.Enabled
}

// GetPublicKey returns the VAPID public key for client subscription.
func (c *Client) GetPublicKey() string {
	if c.config == nil {
		return ""
	}
	return c.config.PublicKey
}

// Subscribe adds a push subscription for a user.
// Subscribing the same endpoint again refreshes its keys and keeps its id.
func (c *Client) Subscribe(userID string, subscription *Subscription) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if subscription.Endpoint == "" || subscription.Keys.P256dh == "" || subscription.Keys.Auth == "" {
		return ErrInvalidEndpoint
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subscriptions[userID] == nil {
		c.subscriptions[userID] = make(map[string]*Subscription)
	}

	subscription.ID = uuid.NewString()
	for id, existing := range c.subscriptions[userID] {
		if existing.Endpoint == subscription.Endpoint {
			subscription.ID = id
			break
		}
	}
	subscription.UserID = userID
	subscription.CreatedAt = time.Now()
	c.subscriptions[userID][subscription.ID] = subscription

	log.Info("Added push subscription", "id", subscription.ID, "user", userID)
	return nil
}

// Unsubscribe removes all push subscriptions of a user.
func (c *Client) Unsubscribe(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.subscriptions, userID)
	log.Info("Removed all push subscriptions", "user", userID)
}

// UnsubscribeByEndpoint removes a subscription by endpoint for a user.
func (c *Client) UnsubscribeByEndpoint(userID, endpoint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, sub := range c.subscriptions[userID] {
		if sub.Endpoint == endpoint {
			c.removeLocked(userID, id)
			log.Info("Removed push subscription", "id", id, "user", userID)
			return true
		}
	}
	return false
}

func (c *Client) removeLocked(userID, subscriptionID string) {
	userSubs, ok := c.subscriptions[userID]
	if !ok {
		return
	}
	delete(userSubs, subscriptionID)
	if len(userSubs) == 0 {
		delete(c.subscriptions, userID)
	}
}

// GetSubscriptions returns the subscriptions of a user ordered by id.
func (c *Client) GetSubscriptions(userID string) []Subscription {
	c.mu.RLock()
	defer c.mu.RUnlock()

	subs := make([]Subscription, 0, len(c.subscriptions[userID]))
	for _, sub := range c.subscriptions[userID] {
		subs = append(subs, *sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs
}

// GetSubscriptionCount returns the number of subscriptions across all users.
func (c *Client) GetSubscriptionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return lo.SumBy(lo.Values(c.subscriptions), func(m map[string]*Subscription) int { return len(m) })
}

// Broadcast sends a notification to every subscription and returns the number delivered.
// Subscriptions the push service reports as gone (404/410) are removed.
func (c *Client) Broadcast(ctx context.Context, payload *NotificationPayload) (int, error) {
	if !c.Enabled() {
		return 0, ErrDisabled
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	c.mu.RLock()
	targets := make([]Subscription, 0)
	for _, userSubs := range c.subscriptions {
		for _, sub := range userSubs {
			targets = append(targets, *sub)
		}
	}
	c.mu.RUnlock()

	if len(targets) == 0 {
		log.Debug("No push subscriptions, skipping broadcast")
		return 0, nil
	}

	var (
		lastErr error
		sent    int
		gone    []Subscription
	)
	for _, sub := range targets {
		resp, err := c.send(ctx, payloadBytes, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.Keys.P256dh,
				Auth:   sub.Keys.Auth,
			},
		}, &webpush.Options{
			Subscriber:      c.config.VAPIDEmail,
			VAPIDPublicKey:  c.config.PublicKey,
			VAPIDPrivateKey: c.config.PrivateKey,
			TTL:             30,
			RecordSize:      3000,
		})

		status := 0
		if resp != nil {
			status = resp.StatusCode
			_ = resp.Body.Close()
		}

		switch {
		case status == http.StatusNotFound || status == http.StatusGone:
			gone = append(gone, sub)
		case err != nil:
			log.Error("Failed to send push notification", "subscription", sub.ID, "user", sub.UserID, "error", err)
			lastErr = err
		case status >= 300:
			log.Warn("Push notification rejected", "subscription", sub.ID, "user", sub.UserID, "status", status)
			lastErr = fmt.Errorf("push notification failed with status %d", status)
		default:
			sent++
		}
	}

	if len(gone) > 0 {
		c.mu.Lock()
		for _, sub := range gone {
			c.removeLocked(sub.UserID, sub.ID)
		}
		c.mu.Unlock()
		log.Info("Pruned expired push subscriptions", "count", len(gone))
	}

	log.Debug("Broadcast push notification", "sent", sent, "total", len(targets))
	if sent == 0 && lastErr != nil {
		return 0, fmt.Errorf("failed to send push notification to any subscription: %w", lastErr)
	}
	return sent, nil
}

// SendAlert broadcasts a fleet alert. It is a no-op when push is disabled.
func (c *Client) SendAlert(ctx context.Context, alert fleet.Alert) error {
	if !c.Enabled() {
		return nil
	}
	body := alert.Description
	if alert.Value != "" {
		body = fmt.Sprintf("%s (%s)", alert.Description, alert.Value)
	}
	_, err := c.Broadcast(ctx, &NotificationPayload{
		Title: alert.Title,
		Body:  body,
		Icon:  "/icons/icon-192x192.png",
		Badge: "/icons/icon-192x192.png",
		Data: map[string]any{
			"type":      "fleet_alert",
			"alertType": string(alert.Type),
			"timestamp": time.Now().Unix(),
		},
	})
	return err
}

// ValidateConfig checks the VAPID configuration.
func (c *Client) ValidateConfig() error {
	if !c.Enabled() {
		return nil
	}
	if c.config.VAPIDEmail == "" {
		return errors.New("vapid_email is required when webpush is enabled")
	}
	if c.config.PublicKey == "" || c.config.PrivateKey == "" {
		return errors.New("both public_key and private_key are required when webpush is enabled")
	}
	if _, err := base64.RawURLEncoding.DecodeString(c.config.PublicKey); err != nil {
		return fmt.Errorf("invalid public key format: %w", err)
	}
	if _, err := base64.RawURLEncoding.DecodeString(c.config.PrivateKey); err != nil {
		return fmt.Errorf("invalid private key format: %w", err)
	}
	return nil
}
