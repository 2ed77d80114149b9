package home

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrengworks/catalog/internal/version"
	"github.com/mrengworks/catalog/internal/web/handler/handlertest"
)

func TestGet(t *testing.T) {
	env := handlertest.New(t)
	app := env.App()

	require.NoError(t, (&Service{}).Init(app, env.Cfg, env.Deps))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("storefront")
	})

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

		var banner Banner

		require.Equal(t, fiber.StatusOK, handlertest.Do(t, app, req, &banner))
		assert.Equal(t, "Catalog API", banner.Message)
		assert.Equal(t, version.Version, banner.Version)
		assert.Equal(t, map[string]string{
			"products": "/api/products",
			"admin":    "/api/admin",
			"settings": "/api/settings",
		}, banner.Endpoints)
	})

	t.Run("browser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAccept, "text/html,application/xhtml+xml,*/*;q=0.8")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/plain")
	})
}
