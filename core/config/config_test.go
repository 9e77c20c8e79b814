package config

import (
	"os"
	"path/filepath"
	"testing"

	"biblib/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Workspace.Root)
	assert.Equal(t, "bib/library.bib", cfg.Workspace.Library)
	assert.Equal(t, "data/identifier_collection.json", cfg.Workspace.Identifiers)
	assert.Equal(t, "data/add_order.json", cfg.Workspace.Order)
	assert.Equal(t, "staging", cfg.Workspace.Staging)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Storage.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, database.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.CacheTTLSeconds)
}

func TestLoadConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "biblib.yaml"), []byte("workspace:\n  staging: inbox\nlog:\n  format: json\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9090\n"), 0o644))
	t.Setenv("LOG_LEVEL", "debug")
	t.Cleanup(func() { os.Unsetenv("SERVER_PORT") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "inbox", cfg.Workspace.Staging)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestJournalDatabase(t *testing.T) {
	cfg := &Config{}
	cfg.Workspace.Root = "/ws"
	cfg.Database.Driver = database.DriverSQLite
	cfg.Database.Name = "data/journal.db"
	assert.Equal(t, "/ws/data/journal.db", cfg.JournalDatabase().Name)

	cfg.Database.Name = ":memory:"
	assert.Equal(t, ":memory:", cfg.JournalDatabase().Name)

	cfg.Database.Driver = database.DriverMySQL
	cfg.Database.Name = "journal"
	assert.Equal(t, "journal", cfg.JournalDatabase().Name)
}
