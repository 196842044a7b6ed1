// Package config loads adbpilot settings: defaults, then an optional YAML file, then
// environment overrides. Command-line flags are applied on top by the caller.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/aretw0/adbpilot/internal/runtime"
	"github.com/aretw0/adbpilot/pkg/adapters/adb"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig             `yaml:"server"`
	ADB      adb.Config               `yaml:"adb"`
	Executor ExecutorConfig           `yaml:"executor"`
	Profile  runtime.MessagingProfile `yaml:"profile"`
	Store    StoreConfig              `yaml:"store"`
	Lock     LockConfig               `yaml:"lock"`
	Log      LogConfig                `yaml:"log"`
	Metrics  MetricsConfig            `yaml:"metrics"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// Validate enables OpenAPI request validation.
	Validate bool `yaml:"validate"`
}

type ExecutorConfig struct {
	// StepGap is a pause inserted between consecutive plan steps.
	StepGap time.Duration `yaml:"step_gap"`
	// DryRun replaces the bridge with a recording channel.
	DryRun bool `yaml:"dry_run"`
}

type StoreConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Path    string        `yaml:"path"`
	Redis   RedisConfig   `yaml:"redis"`
	// Redact lists regular expressions masked in journaled step output.
	Redact     []string         `yaml:"redact"`
	Encryption EncryptionConfig `yaml:"encryption"`
}

// EncryptionConfig holds base64-encoded AES-256 keys for journal encryption.
// An empty Key disables encryption.
type EncryptionConfig struct {
	Key          string   `yaml:"key"`
	FallbackKeys []string `yaml:"fallback_keys"`
}

// Keys decodes the active and fallback keys.
func (e EncryptionConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if e.Key == "" {
		return nil, nil, nil
	}
	active, err = decodeKey(e.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("store.encryption.key: %w", err)
	}
	for i, k := range e.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("store.encryption.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LockConfig struct {
	Enabled bool `yaml:"enabled"`
	// Backend is "memory" or "redis"; redis reuses store.redis connection settings.
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            3000,
			ShutdownTimeout: 5 * time.Second,
			Validate:        true,
		},
		ADB:     adb.DefaultConfig(),
		Profile: runtime.DefaultMessagingProfile(),
		Store: StoreConfig{
			Backend: StoreMemory,
			Path:    "adbpilot.db",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "adbpilot:",
			},
		},
		Lock: LockConfig{
			Backend: StoreMemory,
			TTL:     10 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("ADBPILOT_ADB"); ok && v != "" {
		c.ADB.Binary = v
	}
	if v, ok := lookup("ADBPILOT_SERIAL"); ok {
		c.ADB.Serial = v
	}
	if v, ok := lookup("ADBPILOT_REDIS_ADDR"); ok && v != "" {
		c.Store.Redis.Addr = v
	}
	if v, ok := lookup("ADBPILOT_STORE_KEY"); ok && v != "" {
		c.Store.Encryption.Key = v
	}
	if v, ok := lookup("ADBPILOT_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.ADB.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("adb.timeout must be positive"))
	}
	if c.Executor.StepGap < 0 {
		errs = append(errs, fmt.Errorf("executor.step_gap must not be negative"))
	}
	switch c.Store.Backend {
	case StoreNone, StoreMemory, StoreRedis, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}
	if _, _, err := c.Store.Encryption.Keys(); err != nil {
		errs = append(errs, err)
	}
	for _, p := range c.Store.Redact {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("invalid store.redact pattern %q: %w", p, err))
		}
	}
	if c.Lock.Enabled {
		switch c.Lock.Backend {
		case StoreMemory, StoreRedis:
		default:
			errs = append(errs, fmt.Errorf("unknown lock.backend %q", c.Lock.Backend))
		}
	}
	return errors.Join(errs...)
}
