package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_RepositoryConfigs(t *testing.T) {
	cfg, err := Load("../../configs", "dev")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.HTTPAddr != ":8080" {
		t.Errorf("http_addr = %q", cfg.App.HTTPAddr)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("dev overlay not applied, log_level = %q", cfg.App.LogLevel)
	}
	if cfg.App.StaticPath != "" {
		t.Errorf("static_path = %q, want empty", cfg.App.StaticPath)
	}
	if cfg.Cart.DeliveryFee != 20 {
		t.Errorf("delivery_fee = %v", cfg.Cart.DeliveryFee)
	}
	if cfg.Amount.Min != 1 || cfg.Amount.Max != 9 || cfg.Amount.Default != 1 {
		t.Errorf("amount = %+v", cfg.Amount)
	}
	if cfg.Security.TokenTTL != 12*time.Hour {
		t.Errorf("token_ttl = %v", cfg.Security.TokenTTL)
	}
	if cfg.Idempotency.TTL != 24*time.Hour {
		t.Errorf("idempotency ttl = %v", cfg.Idempotency.TTL)
	}
	if len(cfg.Operators) != 1 || cfg.Operators[0].Email != "staff@pizzeria.local" {
		t.Errorf("operators = %+v", cfg.Operators)
	}
}

func writeConfig(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

const minimalBase = `
app:
  http_addr: ":9000"
storage:
  db_path: /tmp/orders.db
menu:
  path: menu.yaml
cart:
  delivery_fee: 5
security:
  jwt_secret: secret
  token_ttl: 1h
`

func TestLoad_EnvOverride(t *testing.T) {
	dir := writeConfig(t, map[string]string{"base.yaml": minimalBase})
	t.Setenv("PIZZERIA_CART__DELIVERY_FEE", "7.5")
	t.Setenv("PIZZERIA_REDIS__ADDR", "localhost:6379")

	cfg, err := Load(dir, "prod")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Cart.DeliveryFee != 7.5 {
		t.Errorf("env override not applied, delivery_fee = %v", cfg.Cart.DeliveryFee)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis.addr = %q", cfg.Redis.Addr)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{"missing base", map[string]string{}, "load base"},
		{"missing secret", map[string]string{"base.yaml": strings.Replace(minimalBase, "jwt_secret: secret", "jwt_secret: \"\"", 1)}, "jwt_secret"},
		{"negative fee", map[string]string{"base.yaml": minimalBase, "dev.yaml": "cart:\n  delivery_fee: -1\n"}, "delivery_fee"},
		{"operator without password", map[string]string{"base.yaml": minimalBase + "operators:\n  - email: a@b.c\n"}, "operators[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.files), "dev")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
