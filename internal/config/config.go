package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Market  MarketConfig  `yaml:"market"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Port int `yaml:"port"`
}

type MarketConfig struct {
	Timezone            string `yaml:"timezone"`
	ProviderTimeoutMs   int    `yaml:"provider_timeout_ms"`
	RefreshIntervalMin  int    `yaml:"refresh_interval_min"`
	SessionOpen         string `yaml:"session_open"`
	CloseRefresh        string `yaml:"close_refresh"`
	DefaultHistoryStart string `yaml:"default_history_start"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration, used as the base before the
// yaml file and environment overrides are applied.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 5000},
		Log:     LogConfig{Level: "info"},
		Metrics: MetricsConfig{Port: 5001},
		Market: MarketConfig{
			Timezone:            "Asia/Shanghai",
			ProviderTimeoutMs:   5000,
			RefreshIntervalMin:  10,
			SessionOpen:         "09:25",
			CloseRefresh:        "15:05",
			DefaultHistoryStart: "20200101",
		},
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 || p > 65535 {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Server.Port = p
	}
	if v := os.Getenv("METRICS_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 || p > 65535 {
			return fmt.Errorf("invalid METRICS_PORT: %q", v)
		}
		cfg.Metrics.Port = p
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}
