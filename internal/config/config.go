package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"lesson-quiz-service/internal/domain"
)

type Config struct {
	Server struct {
		Port           string `yaml:"port"`
		Mode           string `yaml:"mode"`
		RequestTimeout string `yaml:"request_timeout"`
	} `yaml:"server"`
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Results struct {
		Limit       int    `yaml:"limit"`
		TTL         string `yaml:"ttl"`
		VerifyScore bool   `yaml:"verify_score"`
	} `yaml:"results"`
	Auth struct {
		DefaultUserID string `yaml:"default_user_id"`
		JWTSecret     string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Fixtures struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"fixtures"`
}

// Load reads YAML config from path and fills defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns a config for running without a file: in-memory stores,
// fixtures enabled.
func Default() Config {
	cfg := Config{}
	cfg.Fixtures.Enabled = true
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Mongo.Database == "" {
		c.Mongo.Database = "quiz"
	}
	if c.Auth.DefaultUserID == "" {
		c.Auth.DefaultUserID = domain.PlaceholderUserID
	}
	if c.Results.Limit <= 0 {
		c.Results.Limit = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
