// Package config loads gtech settings from an optional YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ModeLocal  = "local"
	ModeRemote = "remote"

	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Storage StorageConfig `yaml:"storage"`
	Orders  OrdersConfig  `yaml:"orders"`
	Auth    AuthConfig    `yaml:"auth"`
	Pincode PincodeConfig `yaml:"pincode"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	// AdminToken открывает операторские маршруты (X-Admin-Token). Пусто: маршруты закрыты.
	AdminToken string `yaml:"admin_token"`
}

// BackendConfig selects where store records live.
type BackendConfig struct {
	Mode    string `yaml:"mode"` // local, remote
	APIURL  string `yaml:"api_url"`
	Timeout string `yaml:"timeout"`
}

// StorageConfig is the client-local key/value state (session, cart, and the
// local backend's records).
type StorageConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite
	Path   string `yaml:"path"`
}

type OrdersConfig struct {
	DeliveryETA        string `yaml:"delivery_eta"`
	EnforceTransitions bool   `yaml:"enforce_transitions"`
}

type AuthConfig struct {
	// DemoPassword is accepted for every registered email on the local backend.
	DemoPassword string `yaml:"demo_password"`
}

type PincodeConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "5s",
		},
		Backend: BackendConfig{
			Mode:    ModeLocal,
			APIURL:  "https://g-tech-backend-1.onrender.com/api",
			Timeout: "15s",
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   "data/gtech.db",
		},
		Orders: OrdersConfig{
			DeliveryETA: "168h",
		},
		Auth: AuthConfig{
			DemoPassword: "password123",
		},
		Pincode: PincodeConfig{
			Enabled: true,
			BaseURL: "https://api.postalpincode.in",
			Timeout: "5s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GTECH_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("GTECH_ADMIN_TOKEN"); v != "" {
		c.Server.AdminToken = v
	}
	if v := os.Getenv("GTECH_BACKEND_MODE"); v != "" {
		c.Backend.Mode = v
	}
	if v := os.Getenv("GTECH_API_URL"); v != "" {
		c.Backend.APIURL = v
	}
	if v := os.Getenv("GTECH_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("GTECH_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("GTECH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GTECH_ENFORCE_TRANSITIONS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Orders.EnforceTransitions = b
		}
	}
}

// Validate rejects settings the wiring can't act on.
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case ModeLocal:
	case ModeRemote:
		if c.Backend.APIURL == "" {
			return fmt.Errorf("backend.api_url is required in remote mode")
		}
	default:
		return fmt.Errorf("invalid backend mode: %q (valid: %s, %s)", c.Backend.Mode, ModeLocal, ModeRemote)
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid storage driver: %q (valid: %s, %s)", c.Storage.Driver, DriverMemory, DriverSQLite)
	}

	for name, v := range map[string]string{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"backend.timeout":         c.Backend.Timeout,
		"orders.delivery_eta":     c.Orders.DeliveryETA,
		"pincode.timeout":         c.Pincode.Timeout,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

func duration(v string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}

func (c *Config) GetShutdownTimeout() time.Duration { return duration(c.Server.ShutdownTimeout, 5*time.Second) }

func (c *Config) GetBackendTimeout() time.Duration { return duration(c.Backend.Timeout, 15*time.Second) }

func (c *Config) GetDeliveryETA() time.Duration { return duration(c.Orders.DeliveryETA, 7*24*time.Hour) }

func (c *Config) GetPincodeTimeout() time.Duration { return duration(c.Pincode.Timeout, 5*time.Second) }
