// Package config provides configuration loading and management for Wortlupe.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Wortlupe configuration
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel   string           `yaml:"log_level"`
	Tagger     TaggerConfig     `yaml:"tagger"`
	Translator TranslatorConfig `yaml:"translator"`
	Vocab      VocabConfig      `yaml:"vocab"`
	Server     ServerConfig     `yaml:"server"`
}

// TaggerConfig configures the tagging service client
type TaggerConfig struct {
	// Endpoint is the tagging service base URL
	Endpoint string `yaml:"endpoint"`
	// Model is the spaCy pipeline the service should load
	Model string `yaml:"model"`
	// Timeout is the maximum time to wait for a tagging response (e.g. "60s")
	Timeout string `yaml:"timeout"`
}

// TranslatorConfig configures the translation provider
type TranslatorConfig struct {
	// Provider is the registered provider name (e.g. "libretranslate")
	Provider string `yaml:"provider"`
	// Endpoint overrides the provider's default API endpoint
	Endpoint string `yaml:"endpoint"`
	// SourceLang is the language translated from
	SourceLang string `yaml:"source_lang"`
	// TargetLang is the language translated to
	TargetLang string `yaml:"target_lang"`
	// BatchSize is the maximum number of words per translation request
	BatchSize int `yaml:"batch_size"`
	// MaxInFlight caps concurrent translation requests
	MaxInFlight int `yaml:"max_in_flight"`
	// Timeout is the per-request HTTP timeout (e.g. "30s")
	Timeout string      `yaml:"timeout"`
	Retry   RetryConfig `yaml:"retry"`
}

// RetryConfig configures retry behavior for transient translation failures
type RetryConfig struct {
	// MaxAttempts is the total number of tries per request
	MaxAttempts int `yaml:"max_attempts"`
	// BackoffBase is the initial backoff delay (e.g. "2s")
	BackoffBase string `yaml:"backoff_base"`
	// BackoffMultiplier scales the delay after each attempt
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	// MaxBackoff caps the delay between attempts (e.g. "30s")
	MaxBackoff string `yaml:"max_backoff"`
}

// VocabConfig configures the persistent vocabulary store
type VocabConfig struct {
	// Path is the vocabulary JSON file location
	Path string `yaml:"path"`
	// Watch reloads the store when the file changes on disk
	Watch bool `yaml:"watch"`
	// WatchDebounce coalesces rapid file events (e.g. "500ms")
	WatchDebounce string `yaml:"watch_debounce"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080")
	Addr string `yaml:"addr"`
	// MaxUploadMB caps multipart upload size in megabytes
	MaxUploadMB int64 `yaml:"max_upload_mb"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Tagger: TaggerConfig{
			Endpoint: "http://localhost:8070",
			Model:    "de_core_news_md",
			Timeout:  "60s",
		},
		Translator: TranslatorConfig{
			Provider:    "libretranslate",
			Endpoint:    "", // Provider default
			SourceLang:  "de",
			TargetLang:  "en",
			BatchSize:   50,
			MaxInFlight: 10,
			Timeout:     "30s",
			Retry: RetryConfig{
				MaxAttempts:       3,
				BackoffBase:       "2s",
				BackoffMultiplier: 2.0,
				MaxBackoff:        "30s",
			},
		},
		Vocab: VocabConfig{
			Path:          "german_vocab.json",
			Watch:         false,
			WatchDebounce: "500ms",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 32,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	if c.Tagger.Endpoint == "" {
		return fmt.Errorf("tagger.endpoint is required")
	}
	if c.Tagger.Timeout != "" {
		if _, err := time.ParseDuration(c.Tagger.Timeout); err != nil {
			return fmt.Errorf("invalid tagger.timeout format: %w", err)
		}
	}
	if c.Translator.Provider == "" {
		return fmt.Errorf("translator.provider is required")
	}
	if c.Translator.SourceLang == "" || c.Translator.TargetLang == "" {
		return fmt.Errorf("translator.source_lang and translator.target_lang are required")
	}
	if c.Translator.BatchSize <= 0 {
		return fmt.Errorf("translator.batch_size must be positive")
	}
	if c.Translator.MaxInFlight <= 0 {
		return fmt.Errorf("translator.max_in_flight must be positive")
	}
	if c.Translator.Timeout != "" {
		if _, err := time.ParseDuration(c.Translator.Timeout); err != nil {
			return fmt.Errorf("invalid translator.timeout format: %w", err)
		}
	}
	if c.Translator.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("translator.retry.max_attempts must be positive")
	}
	if c.Translator.Retry.BackoffBase != "" {
		if _, err := time.ParseDuration(c.Translator.Retry.BackoffBase); err != nil {
			return fmt.Errorf("invalid translator.retry.backoff_base format: %w", err)
		}
	}
	if c.Translator.Retry.MaxBackoff != "" {
		if _, err := time.ParseDuration(c.Translator.Retry.MaxBackoff); err != nil {
			return fmt.Errorf("invalid translator.retry.max_backoff format: %w", err)
		}
	}
	if c.Vocab.Path == "" {
		return fmt.Errorf("vocab.path is required")
	}
	if c.Vocab.WatchDebounce != "" {
		if _, err := time.ParseDuration(c.Vocab.WatchDebounce); err != nil {
			return fmt.Errorf("invalid vocab.watch_debounce format: %w", err)
		}
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}

	// Tagger
	if other.Tagger.Endpoint != "" {
		c.Tagger.Endpoint = other.Tagger.Endpoint
	}
	if other.Tagger.Model != "" {
		c.Tagger.Model = other.Tagger.Model
	}
	if other.Tagger.Timeout != "" {
		c.Tagger.Timeout = other.Tagger.Timeout
	}

	// Translator
	if other.Translator.Provider != "" {
		c.Translator.Provider = other.Translator.Provider
	}
	if other.Translator.Endpoint != "" {
		c.Translator.Endpoint = other.Translator.Endpoint
	}
	if other.Translator.SourceLang != "" {
		c.Translator.SourceLang = other.Translator.SourceLang
	}
	if other.Translator.TargetLang != "" {
		c.Translator.TargetLang = other.Translator.TargetLang
	}
	if other.Translator.BatchSize != 0 {
		c.Translator.BatchSize = other.Translator.BatchSize
	}
	if other.Translator.MaxInFlight != 0 {
		c.Translator.MaxInFlight = other.Translator.MaxInFlight
	}
	if other.Translator.Timeout != "" {
		c.Translator.Timeout = other.Translator.Timeout
	}
	if other.Translator.Retry.MaxAttempts != 0 {
		c.Translator.Retry.MaxAttempts = other.Translator.Retry.MaxAttempts
	}
	if other.Translator.Retry.BackoffBase != "" {
		c.Translator.Retry.BackoffBase = other.Translator.Retry.BackoffBase
	}
	if other.Translator.Retry.BackoffMultiplier != 0 {
		c.Translator.Retry.BackoffMultiplier = other.Translator.Retry.BackoffMultiplier
	}
	if other.Translator.Retry.MaxBackoff != "" {
		c.Translator.Retry.MaxBackoff = other.Translator.Retry.MaxBackoff
	}

	// Vocab
	if other.Vocab.Path != "" {
		c.Vocab.Path = other.Vocab.Path
	}
	if other.Vocab.Watch {
		c.Vocab.Watch = true
	}
	if other.Vocab.WatchDebounce != "" {
		c.Vocab.WatchDebounce = other.Vocab.WatchDebounce
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.MaxUploadMB != 0 {
		c.Server.MaxUploadMB = other.Server.MaxUploadMB
	}
}

// parseDurationOrDefault parses a duration string and returns the default if empty or invalid.
func parseDurationOrDefault(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// GetTimeout returns the tagger request timeout as a duration.
func (c *TaggerConfig) GetTimeout() time.Duration {
	return parseDurationOrDefault(c.Timeout, 60*time.Second)
}

// GetTimeout returns the translation request timeout as a duration.
func (c *TranslatorConfig) GetTimeout() time.Duration {
	return parseDurationOrDefault(c.Timeout, 30*time.Second)
}

// GetBackoffBase returns the initial retry delay as a duration.
func (c *RetryConfig) GetBackoffBase() time.Duration {
	return parseDurationOrDefault(c.BackoffBase, 2*time.Second)
}

// GetMaxBackoff returns the retry delay cap as a duration.
func (c *RetryConfig) GetMaxBackoff() time.Duration {
	return parseDurationOrDefault(c.MaxBackoff, 30*time.Second)
}

// GetWatchDebounce returns the file watch debounce interval as a duration.
func (c *VocabConfig) GetWatchDebounce() time.Duration {
	return parseDurationOrDefault(c.WatchDebounce, 500*time.Millisecond)
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *ServerConfig) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 32 << 20
	}
	return c.MaxUploadMB << 20
}
