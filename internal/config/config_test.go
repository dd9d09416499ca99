package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("COMPOSELINT_CONTENT_EMITTERS", "")
	t.Setenv("COMPOSELINT_DB", "")
	t.Setenv("COMPOSELINT_WORKERS", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "composelint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
project:
  root: app
  exclude: [generated]
analysis:
  content_emitters: [BrandCard, Avatar]
  workers: 3
storage:
  db: lint.db
`), 0o644))

	t.Setenv("COMPOSELINT_CONTENT_EMITTERS", " Chip, ,Badge ")
	t.Setenv("COMPOSELINT_DB", "")
	t.Setenv("COMPOSELINT_WORKERS", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.Project.Root)
	assert.Equal(t, []string{"generated"}, cfg.Project.Exclude)
	assert.Equal(t, []string{"BrandCard", "Avatar", "Chip", "Badge"}, cfg.Analysis.ContentEmitters)
	assert.Equal(t, 3, cfg.Analysis.Workers)
	assert.Equal(t, 1024, cfg.Analysis.CacheSize, "unset keys keep defaults")
	assert.Equal(t, "lint.db", cfg.Storage.DB)

	t.Setenv("COMPOSELINT_DB", "env.db")
	t.Setenv("COMPOSELINT_WORKERS", "8")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.Storage.DB)
	assert.Equal(t, 8, cfg.Analysis.Workers)
}

func TestLoadConfig_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis: [unterminated"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)

	t.Setenv("COMPOSELINT_WORKERS", "many")
	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList("a, b,,"))
	assert.Nil(t, SplitList(" , "))
}
