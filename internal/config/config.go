package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/userform/internal/errors"
)

const (
	// EnvPrefix prefixes every environment override (USERFORM_ADDR, ...).
	EnvPrefix = "USERFORM"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultEndpoint is the public listing the select options come from.
	DefaultEndpoint = "https://pokeapi.co/api/v2/pokemon/"

	// DefaultFetchTimeout bounds one request to the listing endpoint.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultCacheTTL is how long the cached copy of the listing lives.
	DefaultCacheTTL = 10 * time.Minute

	// DefaultRateLimit is the per-IP request budget per minute.
	DefaultRateLimit = 120

	// DefaultMetricsPath is where prometheus metrics are served.
	DefaultMetricsPath = "/metrics"
)

// Listing cache stores.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// fileNames are tried in order when no explicit path is given.
var fileNames = []string{"userform.json", "userform.yaml", "userform.yml"}

// Duration is a time.Duration that reads "30s"-style strings from JSON,
// YAML and the environment.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the complete server configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" envconfig:"ADDR" validate:"required"`

	// Endpoint is the listing URL the select options are fetched from.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" envconfig:"ENDPOINT" validate:"required,url"`

	// StaleTime is how long a fetched listing stays valid. Zero keeps it
	// until explicitly invalidated.
	StaleTime Duration `json:"staleTime,omitempty" yaml:"staleTime,omitempty" envconfig:"STALE_TIME" validate:"gte=0"`

	// FetchTimeout bounds one request to the listing endpoint.
	FetchTimeout Duration `json:"fetchTimeout,omitempty" yaml:"fetchTimeout,omitempty" envconfig:"FETCH_TIMEOUT" validate:"gt=0"`

	// CacheStore selects the second-level listing cache: none, memory or
	// redis. Empty means redis when RedisAddr is set, none otherwise.
	CacheStore string `json:"cacheStore,omitempty" yaml:"cacheStore,omitempty" envconfig:"CACHE_STORE" validate:"omitempty,oneof=none memory redis"`

	// RedisAddr is the address of the shared listing cache.
	RedisAddr string `json:"redisAddr,omitempty" yaml:"redisAddr,omitempty" envconfig:"REDIS_ADDR" validate:"omitempty,hostname_port"`

	// CacheTTL is the expiry of the cached listing entry.
	CacheTTL Duration `json:"cacheTTL,omitempty" yaml:"cacheTTL,omitempty" envconfig:"CACHE_TTL" validate:"gte=0"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// LogFormat is text or json.
	LogFormat string `json:"logFormat,omitempty" yaml:"logFormat,omitempty" envconfig:"LOG_FORMAT" validate:"oneof=text json"`

	// RateLimit is the per-IP request budget per minute; 0 disables it.
	RateLimit int `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty" envconfig:"RATE_LIMIT" validate:"gte=0"`

	// MetricsPath is where prometheus metrics are served.
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty" envconfig:"METRICS_PATH" validate:"required,startswith=/"`

	// Pretty enables indented HTML output.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty" envconfig:"PRETTY"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Addr:         DefaultAddr,
		Endpoint:     DefaultEndpoint,
		FetchTimeout: Duration(DefaultFetchTimeout),
		CacheTTL:     Duration(DefaultCacheTTL),
		LogLevel:     "info",
		LogFormat:    "text",
		RateLimit:    DefaultRateLimit,
		MetricsPath:  DefaultMetricsPath,
	}
}

// Load resolves the configuration. An empty path searches the working
// directory for a default file name; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		for _, name := range fileNames {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigLoad).
			WithDetail("environment overrides could not be parsed").
			Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes path into c, picking the decoder by extension.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.New(errors.CodeConfigLoad).Wrap(err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return errors.New(errors.CodeConfigLoad).
			WithDetail(fmt.Sprintf("%s is not a valid configuration file", path)).
			Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string {
	return c.configPath
}

// Cache returns the effective CacheStore.
func (c *Config) Cache() string {
	switch {
	case c.CacheStore != "":
		return c.CacheStore
	case c.RedisAddr != "":
		return CacheRedis
	default:
		return CacheNone
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		if c.Cache() == CacheRedis && c.RedisAddr == "" {
			return errors.New(errors.CodeConfigInvalid).
				WithFields(map[string]string{"RedisAddr": "required by cacheStore redis"})
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fmt.Sprintf("failed %q (got %v)", fe.Tag(), fe.Value())
	}
	return errors.New(errors.CodeConfigInvalid).WithFields(fields).Wrap(err)
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger described by the configuration.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
