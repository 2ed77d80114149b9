package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectConfigDir(t *testing.T) string {
	t.Helper()

	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigDir(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.Equal(t, 5000, cfg.Webserver.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Webserver.URL)
	assert.Equal(t, time.Minute, cfg.Webserver.LoginRateWindow)
	assert.Zero(t, cfg.Webserver.LoginRateLimit, "login limiter is opt-in")
	assert.Zero(t, cfg.Client.Timeout)
	assert.Len(t, cfg.Webserver.CORSOrigins, 3)

	assert.Equal(t, EngineSQLite, cfg.DB.Engine)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, time.Duration(0), cfg.Auth.TokenTTL)

	assert.Equal(t, int64(5<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, 5, cfg.Upload.MaxFiles)
	assert.Equal(t, "/uploads", cfg.Upload.URLPrefix)

	assert.Equal(t, 80, cfg.Storefront.NameLimit)
	assert.Equal(t, 120, cfg.Storefront.DescLimit)

	assert.Equal(t, "catalog", cfg.Log.AppName)
	assert.True(t, cfg.Log.Console.Enabled)
	assert.Equal(t, "error.log", cfg.Log.File.Error.File)
}

func TestReadConfig_MissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			Auth:      Auth{TokenSecret: "secret"},
			Upload:    Upload{Dir: "uploads"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(_ *Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Webserver.Port = 0 }, wantErr: ErrWebServerPortCanNotBeZero},
		{name: "missing URL", mutate: func(c *Config) { c.Webserver.URL = "" }, wantErr: ErrEmptyURL},
		{name: "missing token secret", mutate: func(c *Config) { c.Auth.TokenSecret = "" }, wantErr: ErrEmptyTokenSecret},
		{name: "missing upload dir", mutate: func(c *Config) { c.Upload.Dir = "" }, wantErr: ErrEmptyUploadDir},
		{name: "unknown engine", mutate: func(c *Config) { c.DB.Engine = "oracle" }, wantErr: ErrUnknownEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			err := validate(&c)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	c := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		Auth:      Auth{TokenSecret: "secret"},
		Upload:    Upload{Dir: "uploads"},
	}

	require.NoError(t, validate(&c))

	assert.Equal(t, 5, c.Webserver.ShutDownTime)
	assert.Equal(t, 50<<20, c.Webserver.BodyLimit)
	assert.Equal(t, EngineSQLite, c.DB.Engine)
	assert.Equal(t, "catalog.db", c.DB.Path)
	assert.Equal(t, int64(5<<20), c.Upload.MaxFileSize)
	assert.Equal(t, 5, c.Upload.MaxFiles)
	assert.NotEmpty(t, c.Storefront.PlaceholderImage)
	assert.Equal(t, "http://localhost:8080", c.Client.ServerURL)
	assert.Equal(t, "catalog-admin.db", c.Client.StateFile)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":"Test Override","Webserver":{"Port":9090},"DevMode":true}`)

	cfg, err := ReadConfig(projectConfigDir(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.True(t, cfg.DevMode)
	// untouched keys survive the merge
	assert.Equal(t, "http://localhost:5000", cfg.Webserver.URL)
}

func TestReadConfigWithBrokenJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":`)

	_, err := ReadConfig(projectConfigDir(t))
	require.Error(t, err)
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:     "Test",
		DevMode:   true,
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
	}

	tomlStr, err := DumpConfig(&cfg)
	require.NoError(t, err)
	assert.Contains(t, tomlStr, "Test")

	jsonStr, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)
	assert.Contains(t, jsonStr, `"Port": 8080`)
}
