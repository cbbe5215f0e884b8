package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrderService_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REDIS_ADDR", "")

	cfg, err := LoadOrderService()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, TransportHTTP, cfg.InventoryTransport)
	assert.Equal(t, 2*time.Second, cfg.InventoryTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOrderService_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INVENTORY_TRANSPORT", "grpc")
	t.Setenv("INVENTORY_TIMEOUT", "750ms")
	t.Setenv("ORDER_STORE", "mysql")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadOrderService()
	require.NoError(t, err)

	assert.Equal(t, TransportGRPC, cfg.InventoryTransport)
	assert.Equal(t, 750*time.Millisecond, cfg.InventoryTimeout)
	assert.Equal(t, StoreMySQL, cfg.Store)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadOrderService_Invalid(t *testing.T) {
	tests := map[string]string{
		"INVENTORY_TIMEOUT":   "soon",
		"INVENTORY_TRANSPORT": "carrier-pigeon",
		"ORDER_STORE":         "redis",
		"EVENT_WORKERS":       "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)

			_, err := LoadOrderService()
			assert.Error(t, err)
		})
	}
}

func TestLoadInventoryService_RedisNeedsAddr(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INVENTORY_STORE", "redis")

	_, err := LoadInventoryService()
	assert.Error(t, err)

	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := LoadInventoryService()
	require.NoError(t, err)
	assert.True(t, cfg.Seed)
}

func TestLoadInventoryService_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INVENTORY_SEED=false\nINVENTORY_HTTP_ADDR=:9999\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("INVENTORY_SEED")
		os.Unsetenv("INVENTORY_HTTP_ADDR")
	})

	cfg, err := LoadInventoryService()
	require.NoError(t, err)

	assert.False(t, cfg.Seed)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}
