package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// Config holds the configuration for the RideWise server and its dependencies.
type Config struct {
	// Listen is the address the RideWise server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// ServerURL is the base URL of the RideWise server.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// SessionKey is the key used to encrypt session data.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// JWTSecret signs API bearer tokens. Falls back to SessionKey when empty.
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	// JWTTTL is how long an issued API token stays valid.
	JWTTTL time.Duration `yaml:"jwt_ttl" mapstructure:"jwt_ttl"`
	// AdminUsers lists the usernames with admin privileges.
	AdminUsers []string `yaml:"admin_users" mapstructure:"admin_users"`

	// Auth holds the authentication configuration.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Cache holds the cache engine configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Fleet holds the fleet simulator configuration.
	Fleet *FleetConfig `yaml:"fleet" mapstructure:"fleet"`
	// CSV holds the CSV upload configuration.
	CSV *CSVConfig `yaml:"csv" mapstructure:"csv"`
	// Rental holds the rental portal configuration.
	Rental *RentalConfig `yaml:"rental" mapstructure:"rental"`
	// Email holds the email notification configuration.
	Email *EmailConfig `yaml:"email" mapstructure:"email"`
	// Ntfy holds the ntfy notification configuration.
	Ntfy *NtfyConfig `yaml:"ntfy" mapstructure:"ntfy"`
	// WebPush holds the webpush notification configuration.
	WebPush *WebPushConfig `yaml:"webpush" mapstructure:"webpush"`
	// Gravatar holds the configuration for Gravatar profile pictures.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
}

// AuthConfig holds the authentication configuration for the RideWise server.
type AuthConfig struct {
	// Local holds the username/password authentication configuration.
	Local *LocalAuthConfig `yaml:"local" mapstructure:"local"`
	// OIDC holds the OpenID Connect configuration.
	OIDC *OIDCConfig `yaml:"oidc" mapstructure:"oidc"`
}

// LocalAuthConfig holds the configuration for locally stored demo credentials.
type LocalAuthConfig struct {
	// Enabled indicates whether local username/password authentication is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// OIDCConfig holds the OpenID Connect configuration for the RideWise server.
type OIDCConfig struct {
	// Enabled indicates whether OIDC authentication is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Name is the display name for the OIDC provider.
	Name string `yaml:"name" mapstructure:"name"`
	// Issuer is the OIDC issuer URL.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// ClientID is the OIDC client ID.
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	// ClientSecret is the OIDC client secret.
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	// RedirectURL is the redirect URL for the oidc flow.
	RedirectURL string `yaml:"redirect_url" mapstructure:"redirect_url"`
	// AdminGroup is the group that has admin privileges.
	AdminGroup string `yaml:"admin_group" mapstructure:"admin_group"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// CacheConfig holds the configuration for the cache engine.
type CacheConfig struct {
	// Type is the type of cache engine to use (e.g., "memory", "redis").
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the URL for the Redis cache if using Redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
}

// FleetConfig holds the configuration for the mock fleet simulator.
type FleetConfig struct {
	// TickInterval is how often the fleet counters are randomized.
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	// InitialTotal is the number of bikes the simulator starts with.
	InitialTotal int `yaml:"initial_total" mapstructure:"initial_total"`
	// InitialRented is the number of rented bikes the simulator starts with.
	InitialRented int `yaml:"initial_rented" mapstructure:"initial_rented"`
	// LowInventoryThreshold is the station bike count at or below which an alert is raised.
	LowInventoryThreshold int `yaml:"low_inventory_threshold" mapstructure:"low_inventory_threshold"`
	// AlertInterval is the interval for dispatching fleet alerts.
	AlertInterval time.Duration `yaml:"alert_interval" mapstructure:"alert_interval"`
}

// CSVConfig holds the configuration for CSV uploads.
type CSVConfig struct {
	// MaxUploadBytes is the largest accepted upload.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	// RetentionDays is the number of days upload records are kept.
	RetentionDays int `yaml:"retention_days" mapstructure:"retention_days"`
	// RetentionSchedule is the cron schedule of the retention job.
	RetentionSchedule string `yaml:"retention_schedule" mapstructure:"retention_schedule"`
}

// RentalConfig holds the configuration for the bike rental portal.
type RentalConfig struct {
	// Currency is the symbol prefixed to prices.
	Currency string `yaml:"currency" mapstructure:"currency"`
	// MaxDurationHours is the longest bookable rental.
	MaxDurationHours int `yaml:"max_duration_hours" mapstructure:"max_duration_hours"`
}

// EmailConfig holds the email notification configuration.
type EmailConfig struct {
	// Enabled indicates whether email notifications are enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// SMTPHost is the SMTP server host.
	SMTPHost string `yaml:"smtp_host" mapstructure:"smtp_host"`
	// SMTPPort is the SMTP server port.
	SMTPPort int `yaml:"smtp_port" mapstructure:"smtp_port"`
	// Username is the SMTP username.
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the SMTP password.
	Password string `yaml:"password" mapstructure:"password"`
	// FromEmail is the email address from which notifications are sent.
	FromEmail string `yaml:"from_email" mapstructure:"from_email"`
	// FromName is the name from which notifications are sent.
	FromName string `yaml:"from_name" mapstructure:"from_name"`
	// UseTLS indicates whether to use TLS for the SMTP connection.
	UseTLS bool `yaml:"use_tls" mapstructure:"use_tls"`
	// UseSSL indicates whether to use SSL for the SMTP connection.
	UseSSL bool `yaml:"use_ssl" mapstructure:"use_ssl"`
	// InsecureSkipVerify indicates whether to skip TLS certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
}

// NtfyConfig holds the ntfy notification configuration.
type NtfyConfig struct {
	// Enabled indicates whether ntfy notifications are enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServerURL is the URL of the ntfy server.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// Topic is the ntfy topic to publish notifications to.
	Topic string `yaml:"topic" mapstructure:"topic"`
	// Username is the ntfy username for authentication.
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the ntfy password for authentication.
	Password string `yaml:"password" mapstructure:"password"`
	// Token is the ntfy token for authentication.
	Token string `yaml:"token" mapstructure:"token"`
}

// WebPushConfig holds the webpush notification configuration.
type WebPushConfig struct {
	// Enabled indicates whether webpush notifications are enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// VAPIDEmail is the email associated with the VAPID keys.
	VAPIDEmail string `yaml:"vapid_email" mapstructure:"vapid_email"`
	// PublicKey is the VAPID public key.
	PublicKey string `yaml:"public_key" mapstructure:"public_key"`
	// PrivateKey is the VAPID private key.
	PrivateKey string `yaml:"private_key" mapstructure:"private_key"`
}

// GravatarConfig holds the configuration for Gravatar profile pictures.
type GravatarConfig struct {
	// Enabled indicates whether Gravatar support is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the default image to use when no Gravatar is found.
	// Valid values: "404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating for Gravatar images.
	// Valid values: "g", "pg", "r", "x"
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the size of the Gravatar image in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
func Load(path string) (*Config, error) {
	v := viper.New()

	bindNestedEnv(v)
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("RIDEWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.ridewise")
		v.AddConfigPath("/etc/ridewise")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with the RIDEWISE_ prefix override config file values")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// Default returns the configuration that Load produces without any file or environment overrides.
// The session key is left empty and must be filled in by the operator.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	// The defaults are static, an unmarshal error here would be a programming error.
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("failed to unmarshal default config: %v", err)
	}
	return &c
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:5000")
	v.SetDefault("server_url", "http://localhost:5000")
	v.SetDefault("session_max_age", 86400) // 24 hours
	v.SetDefault("session_key", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", 24*time.Hour)
	v.SetDefault("admin_users", []string{})

	// Auth defaults
	v.SetDefault("auth.local.enabled", true)
	v.SetDefault("auth.oidc.enabled", false)
	v.SetDefault("auth.oidc.name", "OIDC")
	v.SetDefault("auth.oidc.issuer", "")
	v.SetDefault("auth.oidc.client_id", "")
	v.SetDefault("auth.oidc.client_secret", "")
	v.SetDefault("auth.oidc.redirect_url", "")
	v.SetDefault("auth.oidc.admin_group", "")

	// Database defaults
	v.SetDefault("database.path", "./data/ridewise.db")

	// Cache defaults
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")

	// Fleet defaults, these match the counters the dashboard shows on first load
	v.SetDefault("fleet.tick_interval", 3*time.Second)
	v.SetDefault("fleet.initial_total", 847)
	v.SetDefault("fleet.initial_rented", 324)
	v.SetDefault("fleet.low_inventory_threshold", 5)
	v.SetDefault("fleet.alert_interval", 5*time.Minute)

	// CSV defaults
	v.SetDefault("csv.max_upload_bytes", 10<<20) // 10 MiB
	v.SetDefault("csv.retention_days", 30)
	v.SetDefault("csv.retention_schedule", "0 3 * * *")

	// Rental defaults
	v.SetDefault("rental.currency", "₹")
	v.SetDefault("rental.max_duration_hours", 24)

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from_email", "")
	v.SetDefault("email.from_name", "RideWise")
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.use_ssl", false)
	v.SetDefault("email.insecure_skip_verify", false)

	// Ntfy defaults
	v.SetDefault("ntfy.enabled", false)
	v.SetDefault("ntfy.server_url", "https://ntfy.sh")
	v.SetDefault("ntfy.topic", "ridewise")
	v.SetDefault("ntfy.username", "")
	v.SetDefault("ntfy.password", "")
	v.SetDefault("ntfy.token", "")

	// WebPush defaults
	v.SetDefault("webpush.enabled", false)
	v.SetDefault("webpush.vapid_email", "")
	v.SetDefault("webpush.public_key", "")
	v.SetDefault("webpush.private_key", "")

	// Gravatar defaults
	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "robohash")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 80)
}

// the auto env function from viper only works for nested structs, if the struct to which a value binds isn't nil.
// The OIDC secrets have no default on purpose, so they are bound manually.
func bindNestedEnv(v *viper.Viper) {
	v.MustBindEnv("auth.oidc.client_secret", "RIDEWISE_AUTH_OIDC_CLIENT_SECRET")
	v.MustBindEnv("cache.redis_url", "RIDEWISE_CACHE_REDIS_URL")
	v.MustBindEnv("email.password", "RIDEWISE_EMAIL_PASSWORD")
	v.MustBindEnv("ntfy.token", "RIDEWISE_NTFY_TOKEN")
	v.MustBindEnv("webpush.private_key", "RIDEWISE_WEBPUSH_PRIVATE_KEY")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing ridewise config")
	}

	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}

	if c.JWTSecret == "" {
		c.JWTSecret = c.SessionKey
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("jwt ttl must be greater than 0")
	}

	if c.Auth == nil {
		return fmt.Errorf("missing auth config")
	}

	authEnabled := false
	if c.Auth.Local != nil && c.Auth.Local.Enabled {
		authEnabled = true
	}
	if c.Auth.OIDC != nil && c.Auth.OIDC.Enabled {
		authEnabled = true
		if c.Auth.OIDC.Issuer == "" {
			return fmt.Errorf("OIDC issuer is required when OIDC is enabled")
		}
		if c.Auth.OIDC.ClientID == "" {
			return fmt.Errorf("OIDC client ID is required when OIDC is enabled")
		}
		if c.Auth.OIDC.ClientSecret == "" {
			return fmt.Errorf("OIDC client secret is required when OIDC is enabled")
		}
		if c.Auth.OIDC.RedirectURL == "" {
			return fmt.Errorf("OIDC redirect URL is required when OIDC is enabled")
		}
	}
	if !authEnabled {
		return fmt.Errorf("at least one authentication method must be enabled")
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Cache != nil {
		if c.Cache.Type == "" {
			return fmt.Errorf("cache type is required when cache is enabled")
		}
		if c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
	} else {
		c.Cache = &CacheConfig{
			Type: CacheTypeMemory,
		}
	}

	if c.Fleet == nil {
		return fmt.Errorf("missing fleet config")
	}
	if c.Fleet.TickInterval <= 0 {
		return fmt.Errorf("fleet tick interval must be greater than 0")
	}
	if c.Fleet.AlertInterval <= 0 {
		return fmt.Errorf("fleet alert interval must be greater than 0")
	}

	if c.CSV == nil {
		return fmt.Errorf("missing csv config")
	}
	if c.CSV.MaxUploadBytes <= 0 {
		return fmt.Errorf("csv max upload bytes must be greater than 0")
	}
	// Basic validation for cron format (5 fields)
	if len(strings.Fields(c.CSV.RetentionSchedule)) != 5 {
		return fmt.Errorf("csv retention schedule must be a valid cron expression with 5 fields (minute hour day month weekday)")
	}

	if c.Rental == nil {
		c.Rental = &RentalConfig{Currency: "₹", MaxDurationHours: 24}
	}
	if c.Rental.MaxDurationHours <= 0 {
		return fmt.Errorf("rental max duration must be greater than 0")
	}

	if c.Email != nil && c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP host is required when email is enabled")
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("from email is required when email is enabled")
		}
	}

	if c.WebPush != nil && c.WebPush.Enabled {
		if c.WebPush.PublicKey == "" || c.WebPush.PrivateKey == "" {
			return fmt.Errorf("VAPID keys are required when webpush is enabled")
		}
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = urlSanitize(c.Listen)

	if c.ServerURL != "" {
		c.ServerURL = urlSanitize(c.ServerURL)
	}

	if c.Ntfy != nil {
		c.Ntfy.ServerURL = urlSanitize(c.Ntfy.ServerURL)
	}

	if c.Auth != nil && c.Auth.OIDC != nil {
		c.Auth.OIDC.Issuer = urlSanitize(c.Auth.OIDC.Issuer)
	}

	for i, u := range c.AdminUsers {
		c.AdminUsers[i] = strings.TrimSpace(u)
	}
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}
