package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/logistics-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	// The package directory holds no config.yaml, so defaults apply.
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "./data/runs.db", cfg.DatabasePath)
	assert.Equal(t, "", cfg.DataDir)
	assert.Equal(t, int64(2400), cfg.DefaultHorizon)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOGISTICS_PORT", "9999")
	t.Setenv("LOGISTICS_DATA_DIR", "/srv/instances")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "/srv/instances", cfg.DataDir)
	assert.Equal(t, "./data/runs.db", cfg.DatabasePath, "untouched keys keep their defaults")
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: 7070\ndatabase_path: /tmp/test-runs.db\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "/tmp/test-runs.db", cfg.DatabasePath)
	assert.Equal(t, int64(2400), cfg.DefaultHorizon)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := config.Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7070\n"), 0o644))
	t.Setenv("LOGISTICS_PORT", "6060")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Port)
}
