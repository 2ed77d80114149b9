package config

import (
	"time"

	"github.com/mrengworks/catalog/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode    bool // expose error details in API responses and reload templates
	Title      string
	DB         DB
	Log        logger.Log
	Webserver  Webserver
	Auth       Auth
	Upload     Upload
	Storefront Storefront
	Client     Client
}

// Webserver implement webserver settings.
type Webserver struct {
	Port            int      // listening port for the webserver
	URL             string   // public base url, used to resolve image references
	ShutDownTime    int      // wait time in seconds for graceful shutdown
	DisableRecover  bool     // disable recover middleware
	CORSOrigins     []string // allowed CORS origins
	BodyLimit       int      // max request body size in bytes
	LoginRateLimit  int      // login attempts per window and IP, 0 disables the limiter
	LoginRateWindow time.Duration
}

// Auth holds the admin credential and bearer token settings.
type Auth struct {
	AdminUsername string
	AdminPassword string // plaintext or argon2id hash ($argon2id$...)
	TokenSecret   string
	TokenTTL      time.Duration // 0 issues tokens without expiry
	Issuer        string
}

// Upload holds the image upload settings.
type Upload struct {
	Dir         string // directory uploaded images are written to
	URLPrefix   string // path prefix the directory is served from
	MaxFileSize int64  // per file ceiling in bytes
	MaxFiles    int    // max images per request
}

// Storefront holds display settings for the public product grid.
type Storefront struct {
	PlaceholderImage string
	NameLimit        int
	DescLimit        int
}

// Client holds settings for the admin client commands.
type Client struct {
	ServerURL      string
	StateFile      string // bbolt file keeping the token between runs
	RestoreSession bool   // open the dashboard from a stored token without a new login
	// Timeout bounds each API call. 0 leaves it to the transport.
	Timeout time.Duration
}
