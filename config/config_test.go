package config

import (
	"slices"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("BOOKING_LOCK_BACKEND", "")
	t.Setenv("REDIS_ENABLED", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.App.Port)
	}
	if cfg.Booking.LockBackend != LockBackendLocal {
		t.Errorf("expected local lock backend, got %q", cfg.Booking.LockBackend)
	}
	if cfg.JWT.AccessExpiry != 15*time.Minute {
		t.Errorf("expected 15m access expiry, got %v", cfg.JWT.AccessExpiry)
	}
}

func TestLoadConfig_RedisLockFallsBackWithoutRedis(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("BOOKING_LOCK_BACKEND", LockBackendRedis)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Booking.LockBackend != LockBackendLocal {
		t.Errorf("expected fallback to local lock, got %q", cfg.Booking.LockBackend)
	}
}

func TestLoadConfig_CORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "a.com, b.com,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(cfg.App.CORSOrigins, []string{"a.com", "b.com"}) {
		t.Errorf("expected both origins, got %q", cfg.App.CORSOrigins)
	}
}

func TestLoadConfig_CORSOriginsDefault(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(cfg.App.CORSOrigins, []string{"*"}) {
		t.Errorf("expected wildcard origin, got %q", cfg.App.CORSOrigins)
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"2s", 2 * time.Second},
		{"", time.Minute},
		{"garbage", time.Minute},
		{"-5s", time.Minute},
	}
	for _, c := range cases {
		if got := parseDuration(c.raw, time.Minute); got != c.want {
			t.Errorf("parseDuration(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}
