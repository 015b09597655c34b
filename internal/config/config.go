// Package config loads the settings of the quercle command from a YAML
// file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	quercletool "github.com/quercle/quercle-aigo/providers/tool/quercle"
	"github.com/quercle/quercle-aigo/quercle"
)

// Environment variables that override the file.
const (
	EnvAPIKey     = "QUERCLE_API_KEY"
	EnvBaseURL    = "QUERCLE_BASE_URL"
	EnvTimeout    = "QUERCLE_TIMEOUT"
	EnvMaxRetries = "QUERCLE_MAX_RETRIES"
)

// MaxRetriesLimit caps the configurable retry count.
const MaxRetriesLimit = 10

// Config holds everything needed to build the Quercle toolset.
type Config struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	AllowedDomains []string      `yaml:"allowed_domains"`
	BlockedDomains []string      `yaml:"blocked_domains"`
	Tools          ToolsConfig   `yaml:"tools"`
	Log            LogConfig     `yaml:"log"`
}

// ToolsConfig switches individual tools on or off. Unset means on.
type ToolsConfig struct {
	Search    *bool `yaml:"search"`
	Fetch     *bool `yaml:"fetch"`
	RawSearch *bool `yaml:"raw_search"`
	RawFetch  *bool `yaml:"raw_fetch"`
	Extract   *bool `yaml:"extract"`
}

// LogConfig selects the log level and format. Empty values fall back to
// QUERCLE_LOG_LEVEL and QUERCLE_LOG_FORMAT.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads .env from the working directory if present, then the YAML file
// at path (skipped when path is empty), then applies environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvTimeout, err)
		}
		c.Timeout = timeout
	}
	if v := os.Getenv(EnvMaxRetries); v != "" {
		retries, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMaxRetries, err)
		}
		c.MaxRetries = retries
	}
	return nil
}

// Validate checks value ranges and formats. A missing API key is not an
// error here: the tools report it when they are first called.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, is.URL),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetries, validation.Min(0), validation.Max(MaxRetriesLimit)),
		validation.Field(&c.AllowedDomains, validation.Each(is.Domain)),
		validation.Field(&c.BlockedDomains, validation.Each(is.Domain)),
		validation.Field(&c.Log),
	)
}

// Validate checks the level and format names.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("trace", "debug", "info", "warn", "warning", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}

// ToolsetOptions maps the config to toolset options. When logger is not nil
// the client reports retries through it.
func (c *Config) ToolsetOptions(logger *slog.Logger) []quercletool.ToolsetOption {
	toolOpts := []quercletool.Option{
		quercletool.WithAPIKey(c.APIKey),
		quercletool.WithBaseURL(c.BaseURL),
		quercletool.WithTimeout(c.Timeout),
	}

	var clientOpts []quercle.Option
	if c.MaxRetries > 0 {
		clientOpts = append(clientOpts, quercle.WithMaxRetries(c.MaxRetries))
	}
	if logger != nil {
		clientOpts = append(clientOpts, quercle.WithLogger(logger))
	}
	if len(clientOpts) > 0 {
		toolOpts = append(toolOpts, quercletool.WithClientOptions(clientOpts...))
	}

	return []quercletool.ToolsetOption{
		quercletool.WithToolOptions(toolOpts...),
		quercletool.WithSearchAllowedDomains(c.AllowedDomains...),
		quercletool.WithSearchBlockedDomains(c.BlockedDomains...),
		quercletool.IncludeSearch(enabled(c.Tools.Search)),
		quercletool.IncludeFetch(enabled(c.Tools.Fetch)),
		quercletool.IncludeRawSearch(enabled(c.Tools.RawSearch)),
		quercletool.IncludeRawFetch(enabled(c.Tools.RawFetch)),
		quercletool.IncludeExtract(enabled(c.Tools.Extract)),
	}
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	var errs validation.Errors
	return errors.As(err, &errs)
}
