package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"inventory-manager/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "sql", cfg.Store.Driver)
	assert.Equal(t, "remote", cfg.Peripheral.Driver)
	assert.Equal(t, []string{"storage"}, cfg.Inventory.StorageTags)
	assert.Equal(t, 8, cfg.Inventory.TransferThreads)
	assert.Equal(t, 16, cfg.Inventory.ScanThreads)
	assert.True(t, cfg.Inventory.Parallel)
	assert.Equal(t, 2, cfg.Inventory.RetryLimit)
	assert.Equal(t, 64, cfg.Inventory.DefaultMaxStack)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "INVENTORY_STORAGE_TAGS=minecraft:chest,minecraft:barrel\n" +
		"INVENTORY_TRANSFER_THREADS=3\n" +
		"INVENTORY_PARALLEL=false\n" +
		"PERIPHERAL_DRIVER=memory\n" +
		"SERVER_API_KEY=secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"INVENTORY_STORAGE_TAGS", "INVENTORY_TRANSFER_THREADS", "INVENTORY_PARALLEL", "PERIPHERAL_DRIVER", "SERVER_API_KEY"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"minecraft:chest", "minecraft:barrel"}, cfg.Inventory.StorageTags)
	assert.Equal(t, 3, cfg.Inventory.TransferThreads)
	assert.False(t, cfg.Inventory.Parallel)
	assert.Equal(t, "memory", cfg.Peripheral.Driver)
	assert.Equal(t, "secret", cfg.Server.ApiKey)
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")

	_, err := config.LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "invalid store.driver")
}

func TestValidate(t *testing.T) {
	cfg := config.Config{}
	cfg.Store.Driver = "SQL"
	cfg.Database.Driver = "mysql"
	cfg.Peripheral.Driver = "memory"
	assert.NoError(t, cfg.Validate())

	cfg.Peripheral.Driver = "serial"
	assert.ErrorContains(t, cfg.Validate(), "peripheral.driver")
}
