package types

import "time"

// HTTPConfig holds shared HTTP settings for outbound provider requests.
type HTTPConfig struct {
	// Timeout bounds each outbound request. A provider that exceeds it is
	// treated as failed.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "curator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero uses the default
	// (5); a negative value disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SearchConfig holds settings for the provider adapters and the aggregator.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// PageSize caps the number of results requested from each provider
	// (default 24).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// HydrateGroupSize is the number of concurrent per-id requests issued by
	// providers without a batch endpoint (default 8).
	HydrateGroupSize int `json:"hydrate_group_size" yaml:"hydrate_group_size" mapstructure:"hydrate_group_size"`

	// MetRequestsPerSecond throttles the Met collection API (default 80).
	MetRequestsPerSecond int `json:"met_requests_per_second" yaml:"met_requests_per_second" mapstructure:"met_requests_per_second"`

	// VAMAPIKey is sent as X-API-Key to the V&A API when set.
	VAMAPIKey string `json:"vam_api_key,omitempty" yaml:"vam_api_key,omitempty" mapstructure:"vam_api_key"`
}

// StoreConfig holds settings for the durable key-value store.
type StoreConfig struct {
	// DataDir contains the SQLite database (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// CuratorConfig groups all configuration sections.
type CuratorConfig struct {
	Search SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
	Store  StoreConfig  `json:"store" yaml:"store" mapstructure:"store"`
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
}

// Defaults for zero-valued configuration fields.
const (
	DefaultTimeout          = 15 * time.Second
	DefaultUserAgent        = "curator/0.1"
	DefaultMaxRetries       = 5
	DefaultPageSize         = 24
	DefaultHydrateGroupSize = 8
	DefaultMetRate          = 80
	DefaultDataDir          = "data"
	DefaultAddr             = ":8080"
)

// WithDefaults returns a copy of cfg with zero fields set to their defaults.
func (cfg SearchConfig) WithDefaults() SearchConfig {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.HydrateGroupSize <= 0 {
		cfg.HydrateGroupSize = DefaultHydrateGroupSize
	}
	if cfg.MetRequestsPerSecond <= 0 {
		cfg.MetRequestsPerSecond = DefaultMetRate
	}
	return cfg
}
