package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/chatpulse/chatpulse/internal/classify"
)

type Config struct {
	Port            int    `yaml:"port"`
	NatsURL         string `yaml:"nats_url"`
	NatsToken       string `yaml:"nats_token"`
	DatabaseURL     string `yaml:"database_url"`
	LogLevel        string `yaml:"log_level"`
	ClassifierURL   string `yaml:"classifier_url"`
	ClassifierToken string `yaml:"classifier_token"`
	Lang            string `yaml:"lang"`
	Mode            string `yaml:"mode"`
	MinCount        int    `yaml:"min_count"`
	Workers         int    `yaml:"workers"`
}

// Load builds the configuration from defaults, an optional YAML file named
// by CHATPULSE_CONFIG, and environment variables, in that order of
// precedence (env wins). An unrecognized classification mode is a fatal
// configuration error.
func Load() (Config, error) {
	cfg := Config{
		Port:     8760,
		NatsURL:  "nats://localhost:4222",
		LogLevel: "info",
		Lang:     "en",
		Mode:     string(classify.ModeBoth),
		MinCount: 0,
		Workers:  4,
	}

	if path := os.Getenv("CHATPULSE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Port = envInt("CHATPULSE_PORT", cfg.Port)
	cfg.NatsURL = envStr("NATS_URL", cfg.NatsURL)
	cfg.NatsToken = envStr("NATS_TOKEN", cfg.NatsToken)
	cfg.DatabaseURL = envStr("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.ClassifierURL = envStr("CLASSIFIER_URL", cfg.ClassifierURL)
	cfg.ClassifierToken = envStr("CLASSIFIER_TOKEN", cfg.ClassifierToken)
	cfg.Lang = envStr("CHATPULSE_LANG", cfg.Lang)
	cfg.Mode = envStr("CHATPULSE_MODE", cfg.Mode)
	cfg.MinCount = envInt("CHATPULSE_MIN_COUNT", cfg.MinCount)
	cfg.Workers = envInt("CHATPULSE_WORKERS", cfg.Workers)

	if _, err := classify.ParseMode(cfg.Mode); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
