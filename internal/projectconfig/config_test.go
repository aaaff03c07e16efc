package projectconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultEngine, cfg.Model.Engine)
	assert.Equal(t, DefaultModel, cfg.Model.Model)
	assert.Equal(t, int64(DefaultMaxTokens), cfg.Model.MaxTokens)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestLoadProjectFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
model:
  engine: mock
  model: test-model
server:
  port: 8123
blob:
  service_url: https://example.blob.core.windows.net/
  container: taskfiles
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Model.Engine)
	assert.Equal(t, "test-model", cfg.Model.Model)
	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "taskfiles", cfg.Blob.Container)
	// Unset fields fall back to defaults.
	assert.Equal(t, int64(DefaultMaxTokens), cfg.Model.MaxTokens)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "model:\n  engine: openai\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(yaml), 0o644))

	t.Setenv("EVALBOARD_ENGINE", "mock")
	t.Setenv("DATABASE_URL", "postgres://env-wins")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Model.Engine)
	assert.Equal(t, "postgres://env-wins", cfg.Store.URL)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("model: [broken"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
