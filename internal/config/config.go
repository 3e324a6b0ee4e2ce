// Package config provides centralized configuration management using Viper.
package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/stepform/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Sink names accepted by the "sink" key.
const (
	SinkLog   = "log"
	SinkFile  = "file"
	SinkRedis = "redis"
)

// DefaultMaxInputSize bounds a single field value in bytes.
const DefaultMaxInputSize = 4096

// Config holds all configuration values for stepform.
type Config struct {
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	Schema        string `mapstructure:"schema" yaml:"schema"`
	Addr          string `mapstructure:"addr" yaml:"addr"`
	Sink          string `mapstructure:"sink" yaml:"sink"`
	SinkDir       string `mapstructure:"sink_dir" yaml:"sink_dir"`
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" yaml:"redis_db"`
	RedisKey      string `mapstructure:"redis_key" yaml:"redis_key"`
	RedisChannel  string `mapstructure:"redis_channel" yaml:"redis_channel"`
	MaxInputSize  int    `mapstructure:"max_input_size" yaml:"max_input_size"`
	// RedactFields lists patterns of field ids masked before submissions reach the sink.
	RedactFields []string `mapstructure:"redact_fields" yaml:"redact_fields"`
	// EncryptionKey is a base64 AES-256 key sealing secret fields at rest.
	EncryptionKey string `mapstructure:"encryption_key" yaml:"encryption_key"`
}

// keys maps each config key to the CLI flag that can override it.
var keys = map[string]string{
	"log_level":      "log-level",
	"schema":         "schema",
	"addr":           "addr",
	"sink":           "sink",
	"sink_dir":       "sink-dir",
	"redis_addr":     "redis-addr",
	"redis_password": "redis-password",
	"redis_db":       "redis-db",
	"redis_key":      "redis-key",
	"redis_channel":  "redis-channel",
	"max_input_size": "max-input-size",
	"redact_fields":  "redact-fields",
	"encryption_key": "encryption-key",
}

// ProjectPath is the config file read from the working directory when none is given.
const ProjectPath = "stepform.yaml"

// Load loads configuration with full precedence:
// CLI flags > ENV vars > config file > defaults.
// configFile may be empty; flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("log_level", "info")
	v.SetDefault("schema", "")
	v.SetDefault("addr", ":8080")
	v.SetDefault("sink", SinkLog)
	v.SetDefault("sink_dir", ".stepform/submissions")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_key", "stepform:submission:")
	v.SetDefault("redis_channel", "stepform:submitted")
	v.SetDefault("max_input_size", DefaultMaxInputSize)
	v.SetDefault("redact_fields", []string{})
	v.SetDefault("encryption_key", "")

	v.SetEnvPrefix("STEPFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key := range keys {
		if err := v.BindEnv(key, "STEPFORM_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if configFile == "" && fileExists(ProjectPath) {
		configFile = ProjectPath
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	if flags != nil {
		for key, name := range keys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding %s flag: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be expressed as defaults.
func (c *Config) Validate() error {
	switch c.Sink {
	case SinkLog, SinkFile, SinkRedis:
	default:
		return fmt.Errorf("invalid sink %q (want %s, %s or %s)", c.Sink, SinkLog, SinkFile, SinkRedis)
	}
	if c.MaxInputSize <= 0 {
		return fmt.Errorf("max_input_size must be positive, got %d", c.MaxInputSize)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.EncryptionKeyBytes(); err != nil {
		return err
	}
	return nil
}

// EncryptionKeyBytes decodes EncryptionKey. It returns nil when no key is set.
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption_key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
