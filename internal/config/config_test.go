package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"DRONE_DASHBOARD_ADDR",
	"DRONE_MAX_UPLOAD_MB",
	"DRONE_HISTOGRAM_BINS",
	"DRONE_ECHARTS_ASSETS_HOST",
	"DRONE_REPORT_DIR",
}

// clearEnv blanks every config variable for the duration of the test.
// godotenv does not override variables that are already set, so they are
// unset rather than emptied.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.DashboardAddr)
	assert.Equal(t, 32, cfg.MaxUploadMB)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes())
	assert.Equal(t, 20, cfg.HistogramBins)
	assert.Equal(t, "", cfg.AssetsHost)
	assert.Equal(t, os.TempDir(), cfg.ReportDir)
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRONE_DASHBOARD_ADDR", "127.0.0.1:9000")
	t.Setenv("DRONE_HISTOGRAM_BINS", "35")
	t.Setenv("DRONE_ECHARTS_ASSETS_HOST", "http://localhost/assets")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.DashboardAddr)
	assert.Equal(t, 35, cfg.HistogramBins)
	assert.Equal(t, "http://localhost/assets/", cfg.AssetsHost)
}

func TestInvalidValues(t *testing.T) {
	for _, tc := range []struct{ key, value string }{
		{"DRONE_MAX_UPLOAD_MB", "lots"},
		{"DRONE_MAX_UPLOAD_MB", "0"},
		{"DRONE_HISTOGRAM_BINS", "-3"},
	} {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DRONE_MAX_UPLOAD_MB=8\nDRONE_REPORT_DIR=/var/reports\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxUploadMB)
	assert.Equal(t, "/var/reports", cfg.ReportDir)

	for _, k := range []string{"DRONE_MAX_UPLOAD_MB", "DRONE_REPORT_DIR"} {
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadWithoutEnvFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.MaxUploadMB)
}
