package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GTECH_ADDR", "GTECH_ADMIN_TOKEN", "GTECH_BACKEND_MODE", "GTECH_API_URL", "GTECH_STORAGE_DRIVER", "GTECH_STORAGE_PATH", "GTECH_LOG_LEVEL", "GTECH_ENFORCE_TRANSITIONS"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ModeLocal, cfg.Backend.Mode)
	assert.Equal(t, "password123", cfg.Auth.DemoPassword)
	assert.False(t, cfg.Orders.EnforceTransitions)
	assert.Equal(t, 7*24*time.Hour, cfg.GetDeliveryETA())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gtech.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  mode: remote
  api_url: http://localhost:5000/api
  timeout: 3s
storage:
  driver: memory
orders:
  enforce_transitions: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ModeRemote, cfg.Backend.Mode)
	assert.Equal(t, 3*time.Second, cfg.GetBackendTimeout())
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Orders.EnforceTransitions)
	// untouched sections keep defaults
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gtech.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [oops"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GTECH_ADDR", ":9090")
	t.Setenv("GTECH_ADMIN_TOKEN", "ops")
	t.Setenv("GTECH_BACKEND_MODE", "remote")
	t.Setenv("GTECH_API_URL", "http://api.test")
	t.Setenv("GTECH_STORAGE_DRIVER", "memory")
	t.Setenv("GTECH_STORAGE_PATH", "/tmp/x.db")
	t.Setenv("GTECH_LOG_LEVEL", "debug")
	t.Setenv("GTECH_ENFORCE_TRANSITIONS", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "ops", cfg.Server.AdminToken)
	assert.Equal(t, ModeRemote, cfg.Backend.Mode)
	assert.Equal(t, "http://api.test", cfg.Backend.APIURL)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Orders.EnforceTransitions)
}

func TestValidate(t *testing.T) {
	t.Run("unknown mode", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Backend.Mode = "cloud"
		assert.ErrorContains(t, cfg.Validate(), "backend mode")
	})
	t.Run("remote needs url", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Backend.Mode = ModeRemote
		cfg.Backend.APIURL = ""
		assert.Error(t, cfg.Validate())
	})
	t.Run("unknown driver", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Storage.Driver = "bolt"
		assert.ErrorContains(t, cfg.Validate(), "storage driver")
	})
	t.Run("bad duration", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Orders.DeliveryETA = "a week"
		assert.ErrorContains(t, cfg.Validate(), "orders.delivery_eta")
	})
}
