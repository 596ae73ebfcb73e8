// Package config loads the engine's runtime configuration: struct
// defaults first, then environment variable overrides, then
// validation. It mirrors the layered-provider pattern koanf is built
// for, scoped down to the two sources an embedded engine actually
// needs (a caller rarely ships a config file alongside a library).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rosflow/engine/engine/logging"
)

// EnvPrefix is the prefix every environment variable override must
// carry. ROSFLOW_CACHE__BACKEND maps to cache.backend.
const EnvPrefix = "ROSFLOW_"

// Config is the engine's complete runtime configuration.
type Config struct {
	Cache   CacheConfig   `koanf:"cache"   validate:"required"`
	HTTP    HTTPConfig    `koanf:"http"    validate:"required"`
	Log     LogConfig     `koanf:"log"     validate:"required"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	// Backend is one of "memory", "file", "lru", or "redis".
	Backend string `koanf:"backend" validate:"required,oneof=memory file lru redis"`
	// Dir is the file backend's storage directory.
	Dir string `koanf:"dir"`
	// Size is the lru backend's maximum entry count.
	Size int `koanf:"size" validate:"required_if=Backend lru,omitempty,gt=0"`
	// RedisAddr is the redis backend's connection address.
	RedisAddr string `koanf:"redis_addr" validate:"required_if=Backend redis"`
}

// HTTPConfig configures the outbound HTTP capability.
type HTTPConfig struct {
	TimeoutSeconds int `koanf:"timeout_seconds" validate:"required,gt=0"`
}

// LogConfig configures the structured logger every run shares.
type LogConfig struct {
	Level  string `koanf:"level"  validate:"required,oneof=debug info warn error disabled"`
	Format string `koanf:"format" validate:"required,oneof=text json"`
}

// MetricsConfig carries the OpenTelemetry toggle. Nothing in this module
// reads Enabled: enginectl plans runs without a Meter, so metrics stay
// disabled whatever it is set to.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns the configuration an engine runs with absent any
// override: an in-memory cache, a 60s HTTP timeout, text logging at
// info level, and metrics off.
func Default() Config {
	return Config{
		Cache:   CacheConfig{Backend: "memory"},
		HTTP:    HTTPConfig{TimeoutSeconds: 60},
		Log:     LogConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Enabled: false},
	}
}

var validate = validator.New()

// Load builds a Config from Default, overlaid with ROSFLOW_-prefixed
// environment variables (double underscore nests: ROSFLOW_CACHE__BACKEND
// becomes cache.backend), then validates the result.
func Load() (Config, error) {
	return LoadFrom(Default())
}

// LoadFrom is Load with a caller-supplied base instead of Default, for
// callers composing their own defaults before the environment overlay.
func LoadFrom(base Config) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(base, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading config defaults: %w", err)
	}

	envProvider := env.Provider(env.Opts{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = normalizeEnvKey(key)
			return key, value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("loading config environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func normalizeEnvKey(key string) string {
	out := make([]byte, 0, len(key))
	trimmed := strings.TrimPrefix(key, EnvPrefix)
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		switch {
		case c == '_' && i+1 < len(trimmed) && trimmed[i+1] == '_':
			out = append(out, '.')
			i++
		case c >= 'A' && c <= 'Z':
			out = append(out, c-'A'+'a')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// HTTPTimeout returns the configured HTTP timeout as a time.Duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// ToLoggingConfig returns the logging.Config this configuration maps to.
func (c Config) ToLoggingConfig() *logging.Config {
	return &logging.Config{
		Level:      logging.ParseLevel(c.Log.Level),
		JSON:       c.Log.Format == "json",
		Output:     os.Stdout,
		TimeFormat: "15:04:05",
	}
}
