package model

import "time"

// Config is the full FactGuard configuration, loaded from
// ~/.factguard/config.yaml, FACTGUARD_* environment variables and CLI flags.
type Config struct {
	HTTP   HTTPConfig   `yaml:"http" mapstructure:"http"`
	LLM    LLMConfig    `yaml:"llm" mapstructure:"llm"`
	Search SearchConfig `yaml:"search" mapstructure:"search"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound HTTP behavior shared by the connectors.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// LLMConfig configures the generative-language backend.
type LLMConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // openai, deepseek, ollama, anthropic
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"` // seconds

	// MaxKeepAlive and MaxConnections bound the shared connection pool to
	// the backend. The pool is the only cross-request shared resource.
	MaxKeepAlive   int `yaml:"max_keepalive" mapstructure:"max_keepalive"`
	MaxConnections int `yaml:"max_connections" mapstructure:"max_connections"`
}

// SearchConfig configures the source connectors.
type SearchConfig struct {
	GoogleAPIKey          string `yaml:"google_api_key" mapstructure:"google_api_key"`
	GoogleCSEID           string `yaml:"google_cse_id" mapstructure:"google_cse_id"`
	NewsAPIKey            string `yaml:"news_api_key" mapstructure:"news_api_key"`
	SemanticScholarAPIKey string `yaml:"semantic_scholar_api_key" mapstructure:"semantic_scholar_api_key"`

	MaxResults int     `yaml:"max_results" mapstructure:"max_results"`
	Workers    int     `yaml:"workers" mapstructure:"workers"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst  int     `yaml:"rate_burst" mapstructure:"rate_burst"`

	EnableScholar bool `yaml:"enable_scholar" mapstructure:"enable_scholar"`
}

// CacheConfig configures search-result caching.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Disk    bool          `yaml:"disk" mapstructure:"disk"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "FactGuard/1.0 (+https://github.com/ppiankov/factguard)",
			MaxBodyBytes: 2_000_000,
		},
		LLM: LLMConfig{
			Provider:       "openai",
			Timeout:        30,
			MaxKeepAlive:   5,
			MaxConnections: 10,
		},
		Search: SearchConfig{
			MaxResults: 5,
			Workers:    4,
			RatePerSec: 1.0,
			RateBurst:  2,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
	}
}
