package gravatar

import (
	"testing"

	"github.com/ridewise/ridewise/internal/config"
	"github.com/stretchr/testify/assert"
)

const testHash = "973dfe463ec85785f5f95af5ba3906eedb2d931c24e69824a89ea65dba4e813b"

func TestResolver_URL(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		config   *config.GravatarConfig
		expected string
	}{
		{
			name:     "disabled",
			email:    "test@example.com",
			config:   &config.GravatarConfig{Enabled: false},
			expected: "",
		},
		{
			name:     "nil config",
			email:    "test@example.com",
			expected: "",
		},
		{
			name:     "empty email",
			email:    "  ",
			config:   &config.GravatarConfig{Enabled: true},
			expected: "",
		},
		{
			name:     "no options",
			email:    "test@example.com",
			config:   &config.GravatarConfig{Enabled: true},
			expected: "https://www.gravatar.com/avatar/" + testHash,
		},
		{
			name:  "all options with normalization",
			email: " TEST@EXAMPLE.COM ",
			config: &config.GravatarConfig{
				Enabled:      true,
				DefaultImage: "robohash",
				Rating:       "pg",
				Size:         80,
			},
			expected: "https://www.gravatar.com/avatar/" + testHash + "?d=robohash&r=pg&s=80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.config).URL(tt.email))
		})
	}
}

func TestResolver_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *config.GravatarConfig
		wantErr string
	}{
		{"disabled ignores values", &config.GravatarConfig{DefaultImage: "nope"}, ""},
		{"defaults", &config.GravatarConfig{Enabled: true, DefaultImage: "robohash", Rating: "g", Size: 80}, ""},
		{"bad default", &config.GravatarConfig{Enabled: true, DefaultImage: "cat"}, "default image"},
		{"bad rating", &config.GravatarConfig{Enabled: true, Rating: "nc17"}, "rating"},
		{"bad size", &config.GravatarConfig{Enabled: true, Size: 4096}, "size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.config).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestResolver_Nil(t *testing.T) {
	var r *Resolver
	assert.False(t, r.Enabled())
	assert.Empty(t, r.URL("test@example.com"))
	assert.NoError(t, r.Validate())
}
