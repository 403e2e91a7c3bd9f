// Package gravatar resolves profile pictures for the /api/me endpoint.
package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ridewise/ridewise/internal/config"
	"github.com/samber/lo"
)

const baseURL = "https://www.gravatar.com/avatar/"

var (
	validDefaults = []string{"404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"}
	validRatings  = []string{"g", "pg", "r", "x"}
)

// Resolver builds Gravatar URLs from email addresses.
type Resolver struct {
	cfg *config.GravatarConfig
}

// New creates a resolver. A nil or disabled config yields empty URLs.
func New(cfg *config.GravatarConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Enabled reports whether avatars are resolved.
func (r *Resolver) Enabled() bool {
	return r != nil && r.cfg != nil && r.cfg.Enabled
}

// Hash returns the SHA-256 hex digest of the normalized email.
func Hash(email string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(email))))
	return hex.EncodeToString(sum[:])
}

// URL returns the avatar URL for email, or "" when disabled or email is empty.
func (r *Resolver) URL(email string) string {
	if !r.Enabled() || strings.TrimSpace(email) == "" {
		return ""
	}

	params := url.Values{}
	if r.cfg.DefaultImage != "" {
		params.Add("d", r.cfg.DefaultImage)
	}
	if r.cfg.Rating != "" {
		params.Add("r", r.cfg.Rating)
	}
	if r.cfg.Size > 0 {
		params.Add("s", strconv.Itoa(r.cfg.Size))
	}

	u := baseURL + Hash(email)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Validate checks the configured options against the values Gravatar accepts.
func (r *Resolver) Validate() error {
	if !r.Enabled() {
		return nil
	}
	if r.cfg.DefaultImage != "" && !lo.Contains(validDefaults, r.cfg.DefaultImage) {
		return fmt.Errorf("invalid gravatar default image %q", r.cfg.DefaultImage)
	}
	if r.cfg.Rating != "" && !lo.Contains(validRatings, r.cfg.Rating) {
		return fmt.Errorf("invalid gravatar rating %q", r.cfg.Rating)
	}
	if r.cfg.Size != 0 && (r.cfg.Size < 1 || r.cfg.Size > 2048) {
		return fmt.Errorf("gravatar size must be between 1 and 2048, got %d", r.cfg.Size)
	}
	return nil
}
