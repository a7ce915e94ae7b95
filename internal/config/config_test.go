package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lesson-quiz-service/internal/domain"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("server:\n  port: \"9090\"\nresults:\n  verify_score: true\nredis:\n  addr: localhost:6379\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || !cfg.Results.VerifyScore || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Results.Limit != 20 || cfg.Auth.DefaultUserID != domain.PlaceholderUserID || cfg.Mongo.Database != "quiz" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.Fixtures.Enabled {
		t.Fatalf("fixtures must be opt-in in file configs")
	}
}

func TestTTLDuration(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback, got %v", d)
	}
	if d := TTLDuration("garbage", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback for bad input, got %v", d)
	}
	if d := TTLDuration("30s", time.Minute); d != 30*time.Second {
		t.Fatalf("expected 30s, got %v", d)
	}
}
