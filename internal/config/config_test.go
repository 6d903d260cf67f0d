package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_DSN", "MIGRATIONS", "CATALOG_PATH", "SERVER_READ_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.DSN != "food_tracker.db" {
		t.Errorf("DSN = %q, want food_tracker.db", cfg.Database.DSN)
	}
	if cfg.App.Migrations {
		t.Error("Migrations should default to false")
	}
	if cfg.Server.ReadTimeout != 15 {
		t.Errorf("ReadTimeout = %d, want 15", cfg.Server.ReadTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db:5432/food?sslmode=disable")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("SERVER_READ_TIMEOUT", "nope")
	t.Setenv("CATALOG_PATH", "/data/foods.csv")
	cfg := Load()
	if cfg.Server.Port != "9090" || !cfg.App.Migrations || cfg.App.CatalogPath != "/data/foods.csv" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Server.ReadTimeout != 15 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.Server.ReadTimeout)
	}
	if Timeout(cfg.Server.IdleTimeout) != 60*time.Second {
		t.Errorf("Timeout(60) = %v", Timeout(cfg.Server.IdleTimeout))
	}
}
