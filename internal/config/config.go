package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Vault       string           `yaml:"vault"`
	Hashtag     string           `yaml:"hashtag"`
	OutputDir   string           `yaml:"output_dir"`
	Schedule    string           `yaml:"schedule"`
	RunOnStart  bool             `yaml:"run_on_start"`
	ExcludeDirs []string         `yaml:"exclude_dirs"`
	Summarizer  SummarizerConfig `yaml:"summarizer"`
	Batching    BatchingConfig   `yaml:"batching"`
	Retry       RetryConfig      `yaml:"retry"`
	Concurrency int              `yaml:"concurrency"`
	// RateLimit caps backend requests per minute; 0 disables the limiter.
	RateLimit int `yaml:"rate_limit"`
}

type SummarizerConfig struct {
	Type      string `yaml:"type"`
	Model     string `yaml:"model"`
	Host      string `yaml:"host"`
	APIKey    string `yaml:"api_key"`
	MaxTokens int    `yaml:"max_tokens"`
}

type BatchingConfig struct {
	MaxBatchTokens int `yaml:"max_batch_tokens"`
	// MaxEntries caps entries per batch. A pointer so an explicit 0
	// (unlimited) is distinguishable from the key being absent.
	MaxEntries *int `yaml:"max_entries"`
}

// MaxEntriesValue returns the cap; 0 means unlimited. Defaults are
// applied by Load, so this is safe after loading.
func (b BatchingConfig) MaxEntriesValue() int {
	if b.MaxEntries == nil {
		return 0
	}
	return *b.MaxEntries
}

type RetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

// BaseDelayDuration parses the configured base delay. Validation
// guarantees it parses, so callers can ignore the error after Load.
func (r RetryConfig) BaseDelayDuration() (time.Duration, error) {
	return time.ParseDuration(r.BaseDelay)
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "Summaries"
	}
	if cfg.Schedule == "" {
		// Monday morning, after the week being summarized has closed.
		cfg.Schedule = "0 8 * * 1"
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "ollama"
	}
	if cfg.Summarizer.Model == "" {
		switch cfg.Summarizer.Type {
		case "anthropic":
			cfg.Summarizer.Model = "claude-sonnet-4-20250514"
		default:
			cfg.Summarizer.Model = "llama3.1:8b"
		}
	}
	if cfg.Summarizer.Host == "" {
		cfg.Summarizer.Host = "http://localhost:11434"
	}
	if cfg.Summarizer.MaxTokens == 0 {
		cfg.Summarizer.MaxTokens = 2000
	}
	if cfg.Batching.MaxBatchTokens == 0 {
		cfg.Batching.MaxBatchTokens = 4000
	}
	if cfg.Batching.MaxEntries == nil {
		def := 20
		cfg.Batching.MaxEntries = &def
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = 3
	}
	if cfg.Retry.BaseDelay == "" {
		cfg.Retry.BaseDelay = "1s"
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 2
	}
}

func validate(cfg *Config) error {
	if cfg.Vault == "" {
		return fmt.Errorf("config: vault is required")
	}
	if cfg.Hashtag == "" {
		return fmt.Errorf("config: hashtag is required")
	}
	switch cfg.Summarizer.Type {
	case "ollama", "anthropic":
	default:
		return fmt.Errorf("config: unsupported summarizer type %q (supported: ollama, anthropic)", cfg.Summarizer.Type)
	}
	if cfg.Summarizer.Type == "anthropic" && cfg.Summarizer.APIKey == "" {
		return fmt.Errorf("config: summarizer.api_key is required (set ANTHROPIC_API_KEY env var)")
	}
	if _, err := cfg.Retry.BaseDelayDuration(); err != nil {
		return fmt.Errorf("config: invalid retry.base_delay %q: %w", cfg.Retry.BaseDelay, err)
	}
	if cfg.Batching.MaxEntries != nil && *cfg.Batching.MaxEntries < 0 {
		return fmt.Errorf("config: batching.max_entries must not be negative")
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("config: concurrency must be at least 1")
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("config: rate_limit must not be negative")
	}
	return nil
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
