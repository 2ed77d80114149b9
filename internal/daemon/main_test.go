package daemon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrengworks/catalog/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()

	return &config.Config{
		Title: "Catalog",
		DB: config.DB{
			Engine: config.EngineSQLite,
			Path:   filepath.Join(dir, "catalog.db"),
		},
		Webserver: config.Webserver{Port: 5000, URL: "http://localhost:5000", BodyLimit: 50 << 20},
		Auth: config.Auth{
			AdminUsername: "admin",
			AdminPassword: "changeme",
			TokenSecret:   "secret",
			Issuer:        "catalog",
		},
		Upload: config.Upload{
			Dir:         filepath.Join(dir, "uploads"),
			URLPrefix:   "/uploads",
			MaxFileSize: 5 << 20,
			MaxFiles:    5,
		},
	}
}

func TestNew_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	d, err := New(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = d.Close(ctx) })

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"username":"admin","password":"changeme"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Handler().App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNew_SeedOnlyOnce(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	d, err := New(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, d.Close(ctx))

	// a changed config password does not overwrite the stored admin
	cfg.Auth.AdminPassword = "other"

	d, err = New(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = d.Close(ctx) })

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"username":"admin","password":"changeme"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Handler().App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t)
	cfg.Auth.TokenSecret = ""

	_, err := New(ctx, cfg)
	require.Error(t, err)

	cfg = testConfig(t)
	cfg.DB.Engine = config.EngineMongoDB
	cfg.DB.URI = ""

	_, err = New(ctx, cfg)
	require.Error(t, err)
}
