package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultStatusPath is the firmware status page most Epson devices serve.
const DefaultStatusPath = "/PRESENTATION/HTML/TOP/PRTINFO.HTML"

// DefaultUsagePaths are the auxiliary pages probed for usage counters,
// in order.
var DefaultUsagePaths = []string{
	"/PRESENTATION/ADVANCED/INFO_MENTINFO/TOP",
	"/PRESENTATION/ADVANCED/INFO_PRTINFO/TOP",
	DefaultStatusPath,
}

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Poll      PollConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Webhook   WebhookConfig
	Metrics   MetricsConfig
	Log       LogConfig
	Devices   DevicesConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls reads of device status pages.
type FetchConfig struct {
	// Scheme is "http" or "https". Certificates are never verified.
	Scheme string // default: "http"

	// Timeout bounds one page read, connect to last byte.
	Timeout time.Duration // default: 5s

	// MaxBodyBytes caps the page size.
	MaxBodyBytes int64 // default: 2 MiB

	// UserAgent is sent with every request.
	UserAgent string

	// UsagePaths are probed in order for usage counters.
	UsagePaths []string
}

// PollConfig controls the background refresh loop.
type PollConfig struct {
	// Interval between refresh cycles. Zero disables polling.
	Interval time.Duration // default: 60s

	// Usage enables usage-counter probing for devices that don't set it.
	Usage bool // default: false

	// LayoutThreshold is the SimHash distance above which a page layout
	// counts as changed.
	LayoutThreshold int // default: 12
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// WebhookConfig controls device event notifications.
type WebhookConfig struct {
	// URL receives events. Empty disables webhooks.
	URL string

	// Secret signs payloads with HMAC-SHA256 when set.
	Secret string

	// LowSupplyPercent triggers supply.low at or below this level.
	LowSupplyPercent int // default: 10
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   // default: true
	Namespace string // default: "printprobe"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DevicesConfig locates the device inventory.
type DevicesConfig struct {
	// File is a YAML device list.
	File string

	// Inline is a comma-separated list of id=host[/path] entries.
	Inline []string
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("PRINTPROBE_HOST", "0.0.0.0"),
			Port: envIntOr("PRINTPROBE_PORT", 8080),
			Mode: envOr("PRINTPROBE_MODE", "release"),
		},
		Fetch: FetchConfig{
			Scheme:       envOr("PRINTPROBE_FETCH_SCHEME", "http"),
			Timeout:      envDurationOr("PRINTPROBE_FETCH_TIMEOUT", 5*time.Second),
			MaxBodyBytes: int64(envIntOr("PRINTPROBE_FETCH_MAX_BODY", 2<<20)),
			UserAgent:    envOr("PRINTPROBE_USER_AGENT", "printprobe/0.1"),
			UsagePaths:   envSliceOr("PRINTPROBE_USAGE_PATHS", DefaultUsagePaths),
		},
		Poll: PollConfig{
			Interval:        envDurationOr("PRINTPROBE_POLL_INTERVAL", 60*time.Second),
			Usage:           envBoolOr("PRINTPROBE_POLL_USAGE", false),
			LayoutThreshold: envIntOr("PRINTPROBE_LAYOUT_THRESHOLD", 12),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("PRINTPROBE_AUTH_ENABLED", true),
			APIKeys: envSliceOr("PRINTPROBE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PRINTPROBE_RATE_RPS", 5.0),
			Burst:             envIntOr("PRINTPROBE_RATE_BURST", 10),
		},
		Webhook: WebhookConfig{
			URL:              os.Getenv("PRINTPROBE_WEBHOOK_URL"),
			Secret:           os.Getenv("PRINTPROBE_WEBHOOK_SECRET"),
			LowSupplyPercent: envIntOr("PRINTPROBE_LOW_SUPPLY_PERCENT", 10),
		},
		Metrics: MetricsConfig{
			Enabled:   envBoolOr("PRINTPROBE_METRICS_ENABLED", true),
			Namespace: envOr("PRINTPROBE_METRICS_NAMESPACE", "printprobe"),
		},
		Log: LogConfig{
			Level:  envOr("PRINTPROBE_LOG_LEVEL", "info"),
			Format: envOr("PRINTPROBE_LOG_FORMAT", "json"),
		},
		Devices: DevicesConfig{
			File:   os.Getenv("PRINTPROBE_DEVICES_FILE"),
			Inline: envSliceOr("PRINTPROBE_DEVICES", nil),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
