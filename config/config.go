// Package config loads the engine's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Storage backends selectable in configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// RedisConfig holds connection settings for the Redis storage backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string      `yaml:"backend" validate:"oneof=memory file redis"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

// ExecutionConfig tunes the execution stub.
type ExecutionConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// Config is the engine's full configuration.
type Config struct {
	Network      string          `yaml:"network" validate:"oneof=mainnet testnet local"`
	DefaultChain string          `yaml:"default_chain" validate:"required"`
	Storage      StorageConfig   `yaml:"storage"`
	Execution    ExecutionConfig `yaml:"execution"`
	LogLevel     string          `yaml:"log_level"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Network:      "mainnet",
		DefaultChain: "polkadot",
		Storage: StorageConfig{
			Backend: BackendMemory,
			Path:    ".flow-engine",
		},
		Execution: ExecutionConfig{
			Delay: 2 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file, applying defaults for absent fields.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration's structural constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Storage.Backend == BackendFile && c.Storage.Path == "" {
		return fmt.Errorf("invalid config: file storage requires a path")
	}
	if c.Storage.Backend == BackendRedis && c.Storage.Redis.Addr == "" {
		return fmt.Errorf("invalid config: redis storage requires an address")
	}
	if c.Execution.Delay < 0 {
		return fmt.Errorf("invalid config: execution delay cannot be negative")
	}
	return nil
}
