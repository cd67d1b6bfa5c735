package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "macrod.ini"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadReadsAgentSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macrod.ini")
	content := `[agent]
backend = mock
listen = localhost:13000
jitter = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Backend)
	assert.Equal(t, "localhost:13000", cfg.Listen)
	assert.False(t, cfg.Jitter)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macrod.ini")
	content := `[agent]
backend = mock
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv(EnvBackend, "kernel-level")
	t.Setenv(EnvListen, "localhost:14000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kernel-level", cfg.Backend)
	assert.Equal(t, "localhost:14000", cfg.Listen)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macrod.ini")
	require.NoError(t, os.WriteFile(path, []byte("[agent\nbackend"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
