package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime settings for the vault rewards keeper daemon.
type Config struct {
	ListenAddress   string        `yaml:"listen"`
	DataDir         string        `yaml:"data_dir"`
	RewardsConfig   string        `yaml:"rewards_config"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	Chain           ChainConfig   `yaml:"chain"`
	Log             LogConfig     `yaml:"log"`
	RateLimit       RateLimit     `yaml:"rate_limit"`
}

// RateLimit throttles the read API per client. Zero disables it.
type RateLimit struct {
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
	Burst             int     `yaml:"burst"`
}

// ChainConfig describes how block heights are derived from wall-clock time.
type ChainConfig struct {
	GenesisTime   time.Time     `yaml:"genesis_time"`
	BlockInterval time.Duration `yaml:"block_interval"`
}

// LogConfig optionally mirrors logs into a rotating file.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load reads the YAML configuration from disk and validates the result.
func Load(path string) (Config, error) {
	cfg := Config{
		ListenAddress:   ":8088",
		RefreshInterval: time.Minute,
	}
	if path == "" {
		return cfg, fmt.Errorf("config path required")
	}
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) normalize() {
	if cfg == nil {
		return
	}
	cfg.ListenAddress = strings.TrimSpace(cfg.ListenAddress)
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8088"
	}
	cfg.DataDir = strings.TrimSpace(cfg.DataDir)
	cfg.RewardsConfig = strings.TrimSpace(cfg.RewardsConfig)
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = time.Minute
	}
	cfg.Log.File = strings.TrimSpace(cfg.Log.File)
	if cfg.Log.File != "" && cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 100
	}
}

func (cfg *Config) validate() error {
	if cfg == nil {
		return fmt.Errorf("configuration is missing")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if cfg.RewardsConfig == "" {
		return fmt.Errorf("rewards_config is required")
	}
	if cfg.RateLimit.RequestsPerMinute < 0 || cfg.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	if err := cfg.Chain.validate(); err != nil {
		return fmt.Errorf("chain: %w", err)
	}
	return nil
}

func (cfg ChainConfig) validate() error {
	if cfg.GenesisTime.IsZero() {
		return fmt.Errorf("genesis_time is required")
	}
	if cfg.BlockInterval <= 0 {
		return fmt.Errorf("block_interval must be positive")
	}
	return nil
}
