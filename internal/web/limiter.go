package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/db/dsn"
	"github.com/mrengworks/catalog/internal/web/handler"
)

// loginAttemptsTable holds the limiter counters in the relational database.
const loginAttemptsTable = "login_attempts"

// newLimiterStorage returns the storage shared by all instances behind a load
// balancer. For sqlite and mongodb it returns nil and the limiter keeps its
// counters in memory.
func newLimiterStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.Engine {
	case config.EngineMySQL:
		return mysqlstorage.New(mysqlstorage.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         loginAttemptsTable,
		})
	case config.EnginePostgres:
		return postgresstorage.New(postgresstorage.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         loginAttemptsTable,
		})
	default:
		return nil
	}
}

// newLoginLimiter limits login attempts per client IP. It returns nil when
// LoginRateLimit is not positive.
func newLoginLimiter(cfg *config.Config, storage fiber.Storage) fiber.Handler {
	if cfg.Webserver.LoginRateLimit <= 0 {
		return nil
	}

	window := cfg.Webserver.LoginRateWindow
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        cfg.Webserver.LoginRateLimit,
		Expiration: window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Warn().Str("ip", c.IP()).Msg("login rate limit reached")

			return handler.Fail(c, fiber.StatusTooManyRequests, "Too many login attempts, try again later")
		},
	})
}
