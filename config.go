package arenauth

import (
	"errors"
	"net/url"
	"time"
)

// Config defines the Engine configuration. Instances are cloned on Build and
// treated as immutable afterwards.
type Config struct {
	Backend    BackendConfig
	HTTP       HTTPConfig
	Cache      CacheConfig
	Validation ValidationConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
BACKEND CONFIG
====================================
*/

// BackendConfig locates the tournament platform backend.
type BackendConfig struct {
	// BaseURL is the backend origin, e.g. "https://arena.example.com".
	// The /api/* endpoint paths are fixed by the wire contract.
	BaseURL string
	// UserAgent is stamped on outgoing requests when the caller set none.
	UserAgent string
}

/*
====================================
HTTP CONFIG
====================================
*/

// HTTPConfig bounds the transport. The browser original had no timeout at
// all; a hung request pinned the loading flag until reload. That gap is
// closed here rather than reproduced.
type HTTPConfig struct {
	RequestTimeout time.Duration
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig names the credential-cache keys and bounds durable entries.
type CacheConfig struct {
	UserKey     string
	TokenKey    string
	RedisPrefix string
	// DefaultTTL applies to durable entries when the backend token carries
	// no usable expiry.
	DefaultTTL time.Duration
	// TokenSkew widens the token-derived TTL to tolerate clock drift.
	TokenSkew time.Duration
}

/*
====================================
VALIDATION CONFIG
====================================
*/

// ValidationConfig tunes the local input gates. OTP codes are rejected
// locally unless they are exactly OTPDigits ASCII digits; emails are
// rejected if they contain any upper-case character.
type ValidationConfig struct {
	OTPDigits         int
	MinPasswordLength int
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the atomic counters and latency histograms.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration a bare New() builder starts from.
// Backend.BaseURL is the only field without a usable default.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			UserAgent: "arenauth/1",
		},
		HTTP: HTTPConfig{
			RequestTimeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			UserKey:     "auth:user",
			TokenKey:    "auth:token",
			RedisPrefix: "arenauth",
			DefaultTTL:  24 * time.Hour,
			TokenSkew:   30 * time.Second,
		},
		Validation: ValidationConfig{
			OTPDigits:         6,
			MinPasswordLength: 8,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate reports configuration errors that would make the Engine unusable.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("Backend.BaseURL is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("Backend.BaseURL must be an absolute URL")
	}
	if c.HTTP.RequestTimeout <= 0 {
		return errors.New("HTTP.RequestTimeout must be positive")
	}
	if c.Validation.OTPDigits < 4 || c.Validation.OTPDigits > 10 {
		return errors.New("Validation.OTPDigits must be between 4 and 10")
	}
	if c.Validation.MinPasswordLength < 1 {
		return errors.New("Validation.MinPasswordLength must be positive")
	}
	if c.Cache.UserKey == c.Cache.TokenKey {
		return errors.New("Cache.UserKey and Cache.TokenKey must differ")
	}
	if c.Cache.DefaultTTL <= 0 {
		return errors.New("Cache.DefaultTTL must be positive")
	}
	return nil
}
