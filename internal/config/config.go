// Package config loads the server configuration from layered YAML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. PIZZERIA_CART__DELIVERY_FEE.
const EnvPrefix = "PIZZERIA_"

type Config struct {
	App struct {
		Name       string `koanf:"name"`
		HTTPAddr   string `koanf:"http_addr"`
		LogLevel   string `koanf:"log_level"`
		LogFile    string `koanf:"log_file"`
		StaticPath string `koanf:"static_path"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Storage struct {
		DBPath string `koanf:"db_path"`
	} `koanf:"storage"`

	Menu struct {
		Path string `koanf:"path"`
	} `koanf:"menu"`

	Cart struct {
		DeliveryFee float64 `koanf:"delivery_fee"`
	} `koanf:"cart"`

	Amount struct {
		Min     int `koanf:"min"`
		Max     int `koanf:"max"`
		Default int `koanf:"default"`
	} `koanf:"amount"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		TokenTTL  time.Duration `koanf:"token_ttl"`
	} `koanf:"security"`

	Operators []Operator `koanf:"operators"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`
}

// Operator is a staff account seeded on startup.
type Operator struct {
	Email       string `koanf:"email"`
	DisplayName string `koanf:"display_name"`
	Password    string `koanf:"password"`
}

// Load reads <dir>/base.yaml, then the optional <dir>/<envName>.yaml, then
// PIZZERIA_ environment variables where "__" separates nested keys.
func Load(dir, envName string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(filepath.Join(dir, "base.yaml")), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	if envName != "" {
		overlay := filepath.Join(dir, envName+".yaml")
		if err := k.Load(file.Provider(overlay), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", overlay, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps PIZZERIA_CART__DELIVERY_FEE to cart.delivery_fee.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ReplaceAll(s, "__", ".")
	return strings.ToLower(s)
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path required")
	}
	if c.Menu.Path == "" {
		return fmt.Errorf("menu.path required")
	}
	if c.Cart.DeliveryFee < 0 {
		return fmt.Errorf("cart.delivery_fee must not be negative")
	}
	if c.Amount.Min < 0 || (c.Amount.Max != 0 && c.Amount.Max < c.Amount.Min) {
		return fmt.Errorf("amount.min/max out of order")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive")
	}
	for i, op := range c.Operators {
		if op.Email == "" || op.Password == "" {
			return fmt.Errorf("operators[%d]: email and password required", i)
		}
	}
	return nil
}
