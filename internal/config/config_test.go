package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/treecopy/internal/config"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "treecopy")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Defaults.Verify)
	assert.Nil(t, cfg.Defaults.Concurrency)
	assert.Nil(t, cfg.Theme.File)
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	writeConfig(t, dir, `
[defaults]
overwrite = true
expand = false
dot = true
junk = false
verify = true
concurrency = 16
bwlimit = "100MB"
filter_file = "/etc/treecopy.rules"
exclude = ["*.tmp", "build/"]
include = ["keep.tmp"]

[theme]
file = "green"
error = "red"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	d := cfg.Defaults
	require.NotNil(t, d.Overwrite)
	assert.True(t, *d.Overwrite)
	require.NotNil(t, d.Expand)
	assert.False(t, *d.Expand)
	require.NotNil(t, d.Dot)
	assert.True(t, *d.Dot)
	require.NotNil(t, d.Junk)
	assert.False(t, *d.Junk)
	require.NotNil(t, d.Verify)
	assert.True(t, *d.Verify)
	require.NotNil(t, d.Concurrency)
	assert.Equal(t, 16, *d.Concurrency)
	require.NotNil(t, d.BWLimit)
	assert.Equal(t, "100MB", *d.BWLimit)
	require.NotNil(t, d.FilterFile)
	assert.Equal(t, "/etc/treecopy.rules", *d.FilterFile)
	assert.Equal(t, []string{"*.tmp", "build/"}, d.Exclude)
	assert.Equal(t, []string{"keep.tmp"}, d.Include)

	require.NotNil(t, cfg.Theme.File)
	assert.Equal(t, "green", *cfg.Theme.File)
	require.NotNil(t, cfg.Theme.Error)
	assert.Equal(t, "red", *cfg.Theme.Error)

	// Unset fields should remain nil.
	assert.Nil(t, cfg.Theme.Directory)
	assert.Nil(t, cfg.Theme.Symlink)
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	writeConfig(t, dir, `
[theme]
symlink = "cyan"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	// Defaults section entirely absent.
	assert.Nil(t, cfg.Defaults.Verify)
	assert.Nil(t, cfg.Defaults.Concurrency)
	assert.Empty(t, cfg.Defaults.Exclude)

	require.NotNil(t, cfg.Theme.Symlink)
	assert.Equal(t, "cyan", *cfg.Theme.Symlink)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	writeConfig(t, dir, "invalid [[[")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_NegativeConcurrency(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	writeConfig(t, dir, "[defaults]\nconcurrency = -1\n")

	_, err := config.Load()
	assert.ErrorContains(t, err, "concurrency")
}

func TestLoadFile_YAML(t *testing.T) {
	for _, name := range []string{"treecopy.yaml", "treecopy.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(`
defaults:
  overwrite: true
  concurrency: 4
  exclude:
    - "*.log"
theme:
  directory: blue
`), 0o644))

			cfg, err := config.LoadFile(path)
			require.NoError(t, err)
			require.NotNil(t, cfg.Defaults.Overwrite)
			assert.True(t, *cfg.Defaults.Overwrite)
			require.NotNil(t, cfg.Defaults.Concurrency)
			assert.Equal(t, 4, *cfg.Defaults.Concurrency)
			assert.Equal(t, []string{"*.log"}, cfg.Defaults.Exclude)
			assert.Nil(t, cfg.Defaults.Verify)
			require.NotNil(t, cfg.Theme.Directory)
			assert.Equal(t, "blue", *cfg.Theme.Directory)
		})
	}
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults: [unclosed"), 0o644))

	_, err := config.LoadFile(path)
	assert.ErrorContains(t, err, "parse")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/treecopy/config.toml", config.Path())
}
