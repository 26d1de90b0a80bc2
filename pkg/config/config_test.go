package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStorePathEnvOverride(t *testing.T) {
	t.Setenv("HARVESTHUB_DB_PATH", "/tmp/custom/harvest.db")
	t.Setenv("DATABASE_URL", "sqlite:///should/be/ignored.db")

	path, err := ResolveStorePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom/harvest.db", path)
}

func TestResolveStorePathEnvOverrideRelative(t *testing.T) {
	// A relative override is made absolute against the working directory.
	t.Setenv("HARVESTHUB_DB_PATH", "data/harvest.db")

	path, err := ResolveStorePath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "data", "harvest.db"), path)
}

func TestResolveStorePathDatabaseURL(t *testing.T) {
	t.Setenv("HARVESTHUB_DB_PATH", "")
	os.Unsetenv("HARVESTHUB_DB_PATH")
	t.Setenv("DATABASE_URL", "sqlite:///var/lib/harvesthub/store.db")

	path, err := ResolveStorePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/harvesthub/store.db", path)
}

func TestResolveStorePathDatabaseURLRejectsWrongScheme(t *testing.T) {
	t.Setenv("HARVESTHUB_DB_PATH", "")
	os.Unsetenv("HARVESTHUB_DB_PATH")
	t.Setenv("DATABASE_URL", "postgres://localhost/harvest")

	_, err := ResolveStorePath()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAbsolute)
}

func TestResolveStorePathDatabaseURLRejectsRelative(t *testing.T) {
	t.Setenv("HARVESTHUB_DB_PATH", "")
	os.Unsetenv("HARVESTHUB_DB_PATH")
	t.Setenv("DATABASE_URL", "sqlite://relative/store.db")

	_, err := ResolveStorePath()
	assert.ErrorIs(t, err, ErrNotAbsolute)
}

func TestResolveStorePathDefaultsToWorkingDir(t *testing.T) {
	t.Setenv("HARVESTHUB_DB_PATH", "")
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("HARVESTHUB_DB_PATH")
	os.Unsetenv("DATABASE_URL")

	path, err := ResolveStorePath()
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, DefaultStoreFile), path)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HARVESTHUB_DB_PATH", filepath.Join(t.TempDir(), "test.db"))

	cfg, err := Load("harvesthub")
	require.NoError(t, err)

	assert.Equal(t, "harvesthub", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.False(t, cfg.SilentInit)
	assert.True(t, filepath.IsAbs(cfg.Store.Path))
}

func TestLoadSilentInit(t *testing.T) {
	t.Setenv("HARVESTHUB_DB_PATH", filepath.Join(t.TempDir(), "test.db"))
	t.Setenv("HARVESTHUB_SILENT_INIT", "1")

	cfg, err := Load("harvesthub")
	require.NoError(t, err)
	assert.True(t, cfg.SilentInit)
}
