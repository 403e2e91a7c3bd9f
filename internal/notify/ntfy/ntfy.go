package ntfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ridewise/ridewise/internal/config"
	"github.com/ridewise/ridewise/internal/fleet"
)

// Client represents a ntfy notification client.
type Client struct {
	config     *config.NtfyConfig
	httpClient *http.Client
}

// Message represents a ntfy message.
type Message struct {
	Topic    string   `json:"topic"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority int      `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Actions  []Action `json:"actions,omitempty"`
}

// Action represents a ntfy action button.
type Action struct {
	Action string `json:"action"`
	Label  string `json:"label"`
	URL    string `json:"url,omitempty"`
}

// NewClient creates a new ntfy client.
func NewClient(cfg *config.NtfyConfig) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled reports whether alerts are published.
func (c *Client) Enabled() bool {
	return c.config != nil && c.config.Enabled
}

// SendMessage publishes a message to the configured topic.
func (c *Client) SendMessage(ctx context.Context, msg Message) error {
	if c.config.Topic != "" {
		msg.Topic = c.config.Topic
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.ServerURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Markdown", "yes")

	// token takes precedence over basic auth
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	} else if c.config.Username != "" && c.config.Password != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		if len(body) > 0 {
			return fmt.Errorf("ntfy server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return fmt.Errorf("ntfy server returned status %d", resp.StatusCode)
	}

	log.Debug("Sent ntfy notification", "topic", msg.Topic, "title", msg.Title)
	return nil
}

// SendAlert publishes a fleet alert. It is a no-op when ntfy is disabled.
func (c *Client) SendAlert(ctx context.Context, alert fleet.Alert) error {
	if !c.Enabled() {
		return nil
	}

	priority, emoji := 3, "🔔"
	switch alert.Type {
	case fleet.AlertDemand:
		priority, emoji = 4, "📈"
	case fleet.AlertWarning:
		priority, emoji = 5, "⚠️"
	case fleet.AlertTime:
		emoji = "⏰"
	}

	var b strings.Builder
	b.WriteString(alert.Description)
	if alert.Value != "" {
		fmt.Fprintf(&b, "\n\n**%s**", alert.Value)
	}

	return c.SendMessage(ctx, Message{
		Title:    fmt.Sprintf("%s %s", emoji, alert.Title),
		Message:  b.String(),
		Priority: priority,
		Tags:     []string{"ridewise", "fleet", string(alert.Type)},
	})
}
