package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "toughstock.yml")
	require.NoError(t, os.WriteFile(f, []byte(body), 0o644))
	return f
}

func TestLoadConfigFile(t *testing.T) {
	workdir := t.TempDir()
	cfile := writeConfig(t, `
system:
  workdir: `+workdir+`
  location: UTC
web:
  port: 9000
inventory:
  low_stock_threshold: 10
`)
	cfg := LoadConfig(cfile)
	assert.Equal(t, workdir, cfg.System.Workdir)
	assert.Equal(t, "UTC", cfg.System.Location)
	assert.Equal(t, 9000, cfg.Web.Port)
	assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
	// keys missing from the file keep their defaults
	assert.Equal(t, 7, cfg.Inventory.ExpiryWindowDays)
	assert.Equal(t, "bolt", cfg.Storage.Type)
	assert.Equal(t, filepath.Join(workdir, "data", "toughstock.db"), cfg.GetStoragePath())

	for _, dir := range []string{cfg.GetDataDir(), cfg.GetLogDir(), cfg.GetReportDir()} {
		st, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	}
}

func TestEnvOverrides(t *testing.T) {
	workdir := t.TempDir()
	cfile := writeConfig(t, "system:\n  workdir: "+workdir+"\n")
	t.Setenv("TOUGHSTOCK_WEB_PORT", "8088")
	t.Setenv("TOUGHSTOCK_SYSTEM_DEBUG", "false")
	t.Setenv("TOUGHSTOCK_STORAGE_TYPE", "memory")
	t.Setenv("TOUGHSTOCK_EXPIRY_WINDOW_DAYS", "14")
	t.Setenv("TOUGHSTOCK_TOP_N", "not-a-number")

	cfg := LoadConfig(cfile)
	assert.Equal(t, 8088, cfg.Web.Port)
	assert.False(t, cfg.System.Debug)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, 14, cfg.Inventory.ExpiryWindowDays)
	assert.Equal(t, 5, cfg.Inventory.TopN, "unparsable values are ignored")
}

func TestReadConfigErrors(t *testing.T) {
	_, err := readConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = readConfig(writeConfig(t, "system: [oops"))
	assert.Error(t, err)
}

func TestDefaultsAreNotShared(t *testing.T) {
	cfg := clone(DefaultAppConfig)
	cfg.Web.Port = 1
	assert.Equal(t, 1816, DefaultAppConfig.Web.Port)
}

func TestDump(t *testing.T) {
	var back AppConfig
	require.NoError(t, yaml.Unmarshal([]byte(DefaultAppConfig.Dump()), &back))
	assert.Equal(t, *DefaultAppConfig, back)
}
