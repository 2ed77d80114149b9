// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvConfigJSON names the environment variable whose JSON is merged over the file config.
const EnvConfigJSON = "CATALOG_CONFIG_JSON"

const (
	defaultShutDownTime    = 5
	defaultMaxFileSize     = 5 << 20
	defaultMaxFiles        = 5
	defaultBodyLimit       = 50 << 20
	defaultLoginRateWindow = time.Minute
	defaultNameLimit       = 80
	defaultDescLimit       = 120
	defaultStateFile       = "catalog-admin.db"
	defaultPlaceholder     = "https://images.unsplash.com/photo-1581091226033-d5c48150dbaa?w=400"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, "main.toml"))

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config from "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service can not start without and
// fills in defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Auth.TokenSecret == "" {
		return errors.Wrap(ErrEmptyTokenSecret, invalidErrMessage)
	}

	if c.Upload.Dir == "" {
		return errors.Wrap(ErrEmptyUploadDir, invalidErrMessage)
	}

	switch c.DB.Engine {
	case "":
		c.DB.Engine = EngineSQLite
	case EngineSQLite, EngineMySQL, EnginePostgres, EngineMongoDB:
	default:
		return errors.Wrap(ErrUnknownEngine, invalidErrMessage)
	}

	applyDefaults(c)

	return nil
}

func applyDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.BodyLimit == 0 {
		c.Webserver.BodyLimit = defaultBodyLimit
	}

	if c.Webserver.LoginRateWindow == 0 {
		c.Webserver.LoginRateWindow = defaultLoginRateWindow
	}

	if c.Upload.URLPrefix == "" {
		c.Upload.URLPrefix = "/uploads"
	}

	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = defaultMaxFileSize
	}

	if c.Upload.MaxFiles == 0 {
		c.Upload.MaxFiles = defaultMaxFiles
	}

	if c.Storefront.NameLimit == 0 {
		c.Storefront.NameLimit = defaultNameLimit
	}

	if c.Storefront.DescLimit == 0 {
		c.Storefront.DescLimit = defaultDescLimit
	}

	if c.Storefront.PlaceholderImage == "" {
		c.Storefront.PlaceholderImage = defaultPlaceholder
	}

	if c.DB.Engine == EngineSQLite && c.DB.Path == "" {
		c.DB.Path = "catalog.db"
	}

	if c.Client.ServerURL == "" {
		c.Client.ServerURL = c.Webserver.URL
	}

	if c.Client.StateFile == "" {
		c.Client.StateFile = defaultStateFile
	}
}
