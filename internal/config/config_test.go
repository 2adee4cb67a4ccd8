package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("SMART_SALES_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data/raw", cfg.Data.Raw)
	assert.Equal(t, "data/dw/smart_sales.db", cfg.Warehouse.Path)
	assert.Equal(t, 10, cfg.Reporting.TopCustomers)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("SMART_SALES_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Reporting.TopCustomers = 25
	cfg.Scrubbing.Customers.SpentMin = 100
	cfg.Warehouse.Path = "elsewhere/warehouse.db"

	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.Reporting.TopCustomers)
	assert.Equal(t, float64(100), loaded.Scrubbing.Customers.SpentMin)
	assert.Equal(t, "elsewhere/warehouse.db", loaded.Warehouse.Path)

	// Untouched values keep their defaults after the round trip.
	assert.Equal(t, "Unknown Product", loaded.Scrubbing.Products.MissingName)
	assert.Equal(t, "drop", loaded.Scrubbing.DatePolicy)
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("SMART_SALES_CONFIG", path)

	partial := "reporting:\n  top_customers: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Reporting.TopCustomers)
	assert.Equal(t, "data/prepared", cfg.Data.Prepared)
	assert.NotEmpty(t, cfg.Scrubbing.DateLayouts)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("SMART_SALES_CONFIG", path)

	require.NoError(t, os.WriteFile(path, []byte("data: [unclosed"), 0o600))

	_, err := Load()
	assert.Error(t, err)
}

func TestGetConfigFileEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("SMART_SALES_CONFIG", path)
	assert.Equal(t, path, GetConfigFile())
}
