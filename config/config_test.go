package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigCeilings(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 60*time.Second, cfg.NavTimeout)
	assert.Equal(t, 20*time.Second, cfg.SelectorTimeout)
	assert.Equal(t, 50, cfg.MaxRevealAttempts)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.False(t, cfg.DBEnabled)
}

func TestLoadFileMissing(t *testing.T) {
	fc, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err, "a missing overlay is not an error")
	assert.Nil(t, fc)
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hemispheres.yaml")
	content := `
output_dir: scraped
headless: true
max_reveal_attempts: 10
database:
  enabled: true
  host: db.internal
  port: 5433
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	fc, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, fc)

	cfg := DefaultConfig()
	cfg.Apply(fc)

	assert.Equal(t, "scraped", cfg.OutputDir)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 10, cfg.MaxRevealAttempts)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 5433, cfg.DBPort)
	// Untouched fields keep their defaults.
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, 60*time.Second, cfg.NavTimeout)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hemispheres.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: [unclosed"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
