package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/db/models"
)

func TestDialector(t *testing.T) {
	testCases := []struct {
		engine  string
		name    string
		wantErr bool
	}{
		{engine: config.EngineSQLite, name: "sqlite"},
		{engine: "", name: "sqlite"},
		{engine: config.EngineMySQL, name: "mysql"},
		{engine: config.EnginePostgres, name: "postgres"},
		{engine: config.EngineMongoDB, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.engine, func(t *testing.T) {
			cfg := &config.Config{DB: config.DB{Engine: tc.engine, Path: ":memory:", Host: "localhost", Port: 1}}

			d, err := Dialector(cfg)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrNotRelational)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.name, d.Name())
		})
	}
}

func TestOpen(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		Engine: config.EngineSQLite,
		Path:   filepath.Join(t.TempDir(), "catalog.db"),
	}}

	db, err := Open(cfg)
	require.NoError(t, err)

	for _, m := range []any{&models.Admin{}, &models.Product{}, &models.Setting{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}

	// migrating twice is a no-op
	require.NoError(t, Migrate(db))
}

func TestOpen_Mongo(t *testing.T) {
	_, err := Open(&config.Config{DB: config.DB{Engine: config.EngineMongoDB}})
	require.ErrorIs(t, err, ErrNotRelational)
}
