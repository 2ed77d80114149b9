package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrengworks/catalog/internal/logger"
	adapter "github.com/mrengworks/catalog/internal/logger/adapter/fiber"
)

type accessLine struct {
	RequestID string `json:"requestId"`
	Status    int    `json:"status"`
	URI       string `json:"URI"`
	Method    string `json:"method"`
	Host      string `json:"host"`
	Error     string `json:"error"`
}

func consoleConfig(out *bytes.Buffer) adapter.Config {
	return adapter.Config{
		Config: logger.Log{
			EnableAccessLogToConsole: true,
			DisableHealthCheck:       true,
			Console:                  logger.Console{Enabled: true},
		},
		HealthCheckURI: "/health",
		Output:         out,
	}
}

func serve(t *testing.T, cfg adapter.Config, target string) {
	t.Helper()

	app := fiber.New()
	app.Use(adapter.New(cfg))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("hello") })
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(_ *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "boom") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get(adapter.HeaderRequestID))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantURI    string
		wantOutput bool
	}{
		{name: "root", target: "/", wantStatus: 200, wantURI: "/", wantOutput: true},
		{name: "query kept", target: "/?test=123", wantStatus: 200, wantURI: "/?test=123", wantOutput: true},
		{name: "unknown path", target: "/no_path//x", wantStatus: 404, wantURI: "/no_path//x", wantOutput: true},
		{name: "handler error", target: "/boom", wantStatus: 418, wantURI: "/boom", wantOutput: true},
		{name: "health check skipped", target: "/health", wantOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			serve(t, consoleConfig(&out), tt.target)

			if !tt.wantOutput {
				assert.Empty(t, out.String())
				return
			}

			var line accessLine
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &line))

			assert.Equal(t, tt.wantStatus, line.Status)
			assert.Equal(t, tt.wantURI, line.URI)
			assert.Equal(t, fiber.MethodGet, line.Method)
			assert.Equal(t, "example.com", line.Host)
			assert.NotEmpty(t, line.RequestID)
		})
	}
}

func TestNew_ConsoleDisabled(t *testing.T) {
	var out bytes.Buffer

	cfg := consoleConfig(&out)
	cfg.Config.Console.Enabled = false

	serve(t, cfg, "/")

	assert.Empty(t, out.String())
}

func TestNew_Next(t *testing.T) {
	var out bytes.Buffer

	cfg := consoleConfig(&out)
	cfg.Next = func(_ *fiber.Ctx) bool { return true }

	app := fiber.New()
	app.Use(adapter.New(cfg))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("hello") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Empty(t, out.String())
	assert.Empty(t, resp.Header.Get(adapter.HeaderRequestID))
}

func TestNew_RecordsRequestMetrics(t *testing.T) {
	var out bytes.Buffer

	serve(t, consoleConfig(&out), "/boom")

	assert.Positive(t, testutil.CollectAndCount(logger.NewRequestMetrics().Collector(), "http_request_duration_seconds"))
}
