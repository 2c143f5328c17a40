// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds every upstream HTTP request (default 45s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "partlens/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScreenerConfig holds settings for the IP screening stage.
type ScreenerConfig struct {
	HTTPConfig `yaml:",inline"`

	// DataKey authenticates against the screening data API. Required:
	// service construction fails without it.
	DataKey string `json:"data_key,omitempty" yaml:"data_key,omitempty"`

	// UXKey is the optional key for the UX endpoints.
	UXKey string `json:"ux_key,omitempty" yaml:"ux_key,omitempty"`

	// DataAPIURL is the case submission endpoint.
	DataAPIURL string `json:"data_api_url" yaml:"data_api_url"`

	// PDFAPIURL is the report download endpoint.
	PDFAPIURL string `json:"pdf_api_url" yaml:"pdf_api_url"`

	// StatsAPIURL is the account statistics endpoint.
	StatsAPIURL string `json:"stats_api_url" yaml:"stats_api_url"`

	// Username is the account name sent with each submission.
	Username string `json:"username" yaml:"username"`

	// DefaultRows is the number of result rows requested when the caller
	// does not specify one (default 25).
	DefaultRows int `json:"default_rows" yaml:"default_rows"`

	// MaxRows caps the requested result rows (default 100).
	MaxRows int `json:"max_rows" yaml:"max_rows"`

	// MaxRetries bounds total attempts per logical submission when the
	// upstream rate-limits (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the analysis cache store.
type CacheConfig struct {
	// Path is the sqlite database file for cached results
	// (default "partlens-cache.db").
	Path string `json:"path" yaml:"path"`

	// TTL is the maximum age before a cached result is stale (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// ThrottleWindow is the minimum interval between upstream attempts
	// for the same fingerprint (default 5m).
	ThrottleWindow time.Duration `json:"throttle_window" yaml:"throttle_window"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// Config groups all stage configurations.
type Config struct {
	Screener ScreenerConfig `json:"screener" yaml:"screener"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}

// Defaults returns the built-in configuration. Callers overlay file and
// environment values on top.
func Defaults() Config {
	return Config{
		Screener: ScreenerConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   45 * time.Second,
				UserAgent: "partlens/0.1",
			},
			DataAPIURL:  "https://my.ipscreener.com/api/data/case",
			PDFAPIURL:   "https://my.ipscreener.com/api/data/pdf",
			StatsAPIURL: "https://my.ipscreener.com/api/data/stats",
			Username:    "tester@ipscreener.com",
			DefaultRows: 25,
			MaxRows:     100,
			MaxRetries:  3,
		},
		Cache: CacheConfig{
			Path:           "partlens-cache.db",
			TTL:            24 * time.Hour,
			ThrottleWindow: 5 * time.Minute,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}
