package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "./drop", cfg.Dir)
	assert.Equal(t, "127.0.0.1", cfg.HTTPAddr)
	assert.EqualValues(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestMergeFileOverridesOnlySetFields(t *testing.T) {
	cfg := Default()
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(path, []byte("dir: /tmp/custom-drop\n"), 0o644))

	require.NoError(t, mergeFile(&cfg, path))

	assert.Equal(t, "/tmp/custom-drop", cfg.Dir)
	assert.Equal(t, "127.0.0.1", cfg.HTTPAddr) // untouched
}

func TestMergeEnvOverridesFields(t *testing.T) {
	t.Setenv("DROP_DIR", "/var/lib/drop")
	t.Setenv("DROP_HTTP_PORT", "9090")
	t.Setenv("DROP_TIMEOUT", "30")

	cfg := Default()
	require.NoError(t, mergeEnv(&cfg))

	assert.Equal(t, "/var/lib/drop", cfg.Dir)
	assert.EqualValues(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
}

func TestMergeEnvRejectsBadPort(t *testing.T) {
	t.Setenv("DROP_HTTP_PORT", "not-a-number")
	cfg := Default()
	err := mergeEnv(&cfg)
	assert.Error(t, err)
}

func TestLoadWithNoFilesOrEnvReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Dir, cfg.Dir)
}
