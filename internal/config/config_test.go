package config

import (
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/clinicore")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("unexpected pool defaults: max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.RiskFanOut != 8 {
		t.Errorf("expected default fan-out 8, got %d", cfg.RiskFanOut)
	}
	if !cfg.IsDev() {
		t.Error("expected default env to be development")
	}
}

func TestValidate_ProductionNeedsSigningKey(t *testing.T) {
	cfg := &Config{Env: "production", DBMaxConns: 20, DBMinConns: 5, RiskFanOut: 8}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing JWT_SIGNING_KEY in production")
	}
	cfg.JWTSigningKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_PoolBounds(t *testing.T) {
	cfg := &Config{Env: "development", DBMaxConns: 5, DBMinConns: 10, RiskFanOut: 8}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when min conns exceed max conns")
	}
}
