package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrengworks/catalog/internal/auth"
	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/db"
)

// writeConfig writes a main.toml using dbEngine and a database under a temp dir.
func writeConfig(t *testing.T, dbEngine string) (dir, dbPath string) {
	t.Helper()

	dir = t.TempDir()
	dbPath = filepath.Join(dir, "catalog.db")

	main := `
[Webserver]
Port = 5000
URL = "http://localhost:5000"

[DB]
Engine = "` + dbEngine + `"
Path = "` + filepath.ToSlash(dbPath) + `"

[Auth]
AdminUsername = "admin"
AdminPassword = "changeme"
TokenSecret = "secret"

[Upload]
Dir = "` + filepath.ToSlash(filepath.Join(dir, "uploads")) + `"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(main), 0o600))

	return dir, dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()

	return out.String(), err
}

func TestConfigDump(t *testing.T) {
	dir, _ := writeConfig(t, config.EngineSQLite)

	t.Run("toml", func(t *testing.T) {
		out, err := run(t, "--config", dir, "config", "dump", "--json=false")
		require.NoError(t, err)

		var c config.Config
		_, err = toml.Decode(out, &c)
		require.NoError(t, err)

		assert.Equal(t, 5000, c.Webserver.Port)
		assert.Equal(t, "http://localhost:5000", c.Client.ServerURL, "defaults are applied")
		assert.Zero(t, c.Webserver.LoginRateLimit)
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "--config", dir, "config", "dump", "--json")
		require.NoError(t, err)

		var c config.Config
		require.NoError(t, json.Unmarshal([]byte(out), &c))

		assert.Equal(t, config.EngineSQLite, c.DB.Engine)
		assert.Equal(t, 5, c.Upload.MaxFiles)
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := run(t, "--config", t.TempDir(), "config", "dump")
		require.Error(t, err)
	})
}

func TestAdminSetPassword(t *testing.T) {
	dir, dbPath := writeConfig(t, config.EngineSQLite)

	out, err := run(t, "--config", dir, "admin", "set-password", "admin", "n3w-secret")
	require.NoError(t, err)
	assert.Contains(t, out, "password of admin updated")

	c, err := config.ReadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, dbPath, c.DB.Path)

	gdb, err := db.Open(&c)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	local := auth.NewLocalProvider(gdb)

	_, err = local.Authenticate(t.Context(), "admin", "n3w-secret")
	require.NoError(t, err)

	_, err = local.Authenticate(t.Context(), "admin", "changeme")
	require.ErrorIs(t, err, auth.ErrInvalidPassword)

	_, err = run(t, "--config", dir, "admin", "set-password", "nobody", "x")
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestAdminSetPassword_Mongo(t *testing.T) {
	dir, _ := writeConfig(t, config.EngineMongoDB)

	_, err := run(t, "--config", dir, "admin", "set-password", "admin", "x")
	require.ErrorIs(t, err, ErrPasswordFromConfig)
}
