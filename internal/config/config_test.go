package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load defaults failed: %v", err)
	}
	if cfg.Shop.Storage != "database" || cfg.Shop.Shipping.FlatCost != 2000 {
		t.Fatalf("unexpected shop defaults: %+v", cfg.Shop)
	}
	if len(cfg.Shop.Shipping.FreeCities) != 2 || cfg.Shop.Shipping.FreeCities[0] != "Tămășeni" {
		t.Fatalf("unexpected free cities: %v", cfg.Shop.Shipping.FreeCities)
	}
	if cfg.Shop.EnvelopeTTL() != 7*24*time.Hour {
		t.Fatalf("unexpected envelope ttl %v", cfg.Shop.EnvelopeTTL())
	}
	if cfg.Session.IdleTimeout() != 30*time.Minute {
		t.Fatalf("unexpected idle timeout %v", cfg.Session.IdleTimeout())
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte(`
shop:
  storage: redis
  expire_days: 3
  shipping:
    flat_cost: 1500
    free_cities: ["Bacău"]
session:
  idle_minutes: 5
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv("SHOP_NOTIFY_TRANSPORT", "queue")

	v := viper.New()
	v.SetConfigFile(path)
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Shop.Storage != "redis" || cfg.Shop.EnvelopeTTL() != 72*time.Hour {
		t.Fatalf("unexpected shop config: %+v", cfg.Shop)
	}
	if cfg.Shop.Shipping.FlatCost != 1500 || len(cfg.Shop.Shipping.FreeCities) != 1 {
		t.Fatalf("unexpected shipping config: %+v", cfg.Shop.Shipping)
	}
	if cfg.Session.IdleTimeout() != 5*time.Minute {
		t.Fatalf("unexpected idle timeout %v", cfg.Session.IdleTimeout())
	}
	if cfg.Shop.Notify.Transport != "queue" {
		t.Fatalf("env override not applied, got %q", cfg.Shop.Notify.Transport)
	}
}

func TestEnvelopeTTLFallback(t *testing.T) {
	if (ShopConfig{ExpireDays: -1}).EnvelopeTTL() != 7*24*time.Hour {
		t.Fatalf("non-positive expire days should use default")
	}
}
