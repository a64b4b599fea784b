package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	for _, key := range []string{"PORT", "DATABASE_URL", "REDIS_ADDR", "CACHE_TTL", "HISTORY_RETENTION_DAYS",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "ALLOWED_ORIGINS", "R2_ACCOUNT_ID", "UPLOAD_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Redis.TTL != 10*time.Minute {
		t.Errorf("Redis.TTL = %v, want 10m", cfg.Redis.TTL)
	}
	if cfg.HistoryRetention != 90*24*time.Hour {
		t.Errorf("HistoryRetention = %v, want 90 days", cfg.HistoryRetention)
	}
	if cfg.Upload.Dir != "uploads" {
		t.Errorf("Upload.Dir = %q, want uploads", cfg.Upload.Dir)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 defaults", cfg.AllowedOrigins)
	}
	if cfg.R2.Enabled() {
		t.Error("R2 should be disabled without credentials")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("HISTORY_RETENTION_DAYS", "7")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("ALLOWED_ORIGINS", "https://taxdesk.example, https://app.taxdesk.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Redis.TTL != 30*time.Second {
		t.Errorf("Redis.TTL = %v, want 30s", cfg.Redis.TTL)
	}
	if cfg.HistoryRetention != 7*24*time.Hour {
		t.Errorf("HistoryRetention = %v, want 7 days", cfg.HistoryRetention)
	}
	if cfg.RateLimit.RPS != 0.5 || cfg.RateLimit.Burst != 3 {
		t.Errorf("RateLimit = %+v, want {0.5 3}", cfg.RateLimit)
	}
	want := []string{"https://taxdesk.example", "https://app.taxdesk.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "bad ttl", env: map[string]string{"JWT_SECRET": "s", "CACHE_TTL": "soon"}},
		{name: "bad retention", env: map[string]string{"JWT_SECRET": "s", "HISTORY_RETENTION_DAYS": "ninety"}},
		{name: "bad rps", env: map[string]string{"JWT_SECRET": "s", "RATE_LIMIT_RPS": "fast"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestR2Config_Enabled(t *testing.T) {
	c := R2Config{AccountID: "a", AccessKey: "k", SecretKey: "s", Bucket: "b", PublicURL: "https://pub.r2.dev"}
	if !c.Enabled() {
		t.Error("expected R2 enabled with full credentials")
	}
	c.Bucket = ""
	if c.Enabled() {
		t.Error("expected R2 disabled without bucket")
	}
}
