// Package handlertest builds the handler dependencies on an in-memory SQLite
// database for HTTP tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrengworks/catalog/internal/auth"
	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/db"
	"github.com/mrengworks/catalog/internal/db/controller/product"
	"github.com/mrengworks/catalog/internal/db/controller/setting"
	"github.com/mrengworks/catalog/internal/db/models"
	"github.com/mrengworks/catalog/internal/upload"
	"github.com/mrengworks/catalog/internal/web/handler"
)

const (
	// AdminUser and AdminPassword are the credentials accepted by Env.Deps.Auth.
	AdminUser     = "admin"
	AdminPassword = "changeme"
)

// PNG is the smallest byte sequence sniffed as image/png.
var PNG = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

// Env is a ready to use set of handler dependencies.
type Env struct {
	Cfg  *config.Config
	DB   *gorm.DB
	Deps *handler.Deps
}

// New returns an Env backed by a fresh in-memory database and a temp upload dir.
func New(t *testing.T) *Env {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	cfg := &config.Config{
		Title: "Catalog",
		Webserver: config.Webserver{
			URL:  "http://localhost:5000",
			Port: 5000,
		},
		Auth: config.Auth{
			AdminUsername: AdminUser,
			AdminPassword: AdminPassword,
			TokenSecret:   "test-secret",
			Issuer:        "catalog",
		},
		Upload: config.Upload{
			Dir:         filepath.Join(t.TempDir(), "uploads"),
			URLPrefix:   "/uploads",
			MaxFileSize: 5 << 20,
			MaxFiles:    5,
		},
	}

	uploads, err := upload.New(cfg.Upload)
	require.NoError(t, err)

	tokens, err := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.Issuer, 0)
	require.NoError(t, err)

	local := auth.NewLocalProvider(gdb)
	require.NoError(t, local.EnsureAdmin(t.Context(), AdminUser, AdminPassword))

	return &Env{
		Cfg: cfg,
		DB:  gdb,
		Deps: &handler.Deps{
			Products:  product.NewStore(gdb),
			Settings:  setting.NewStore(gdb),
			Auth:      auth.NewService(local, tokens),
			Uploads:   uploads,
			Validator: validator.New(),
		},
	}
}

// App returns a fiber app with the production error handler.
func (e *Env) App() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: handler.ErrorHandler(true),
		BodyLimit:    50 << 20,
	})
}

// Token returns a valid bearer token for the test admin.
func (e *Env) Token(t *testing.T) string {
	t.Helper()

	res, err := e.Deps.Auth.Login(t.Context(), AdminUser, AdminPassword)
	require.NoError(t, err)

	return res.Token
}

// ProductCount returns the number of stored products.
func (e *Env) ProductCount(t *testing.T) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.DB.Model(&models.Product{}).Count(&n).Error)

	return n
}

// File is one file part of a multipart body.
type File struct {
	Field string
	Name  string
	Data  []byte
}

// Multipart encodes fields and files and returns the body and its content type.
func Multipart(t *testing.T, fields map[string]string, files ...File) (io.Reader, string) {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	for _, f := range files {
		field := f.Field
		if field == "" {
			field = "images"
		}

		part, err := w.CreateFormFile(field, f.Name)
		require.NoError(t, err)

		_, err = part.Write(f.Data)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

// Do sends req to app and decodes the JSON answer into out if out is not nil.
func Do(t *testing.T, app *fiber.App, req *http.Request, out any) int {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

// JSONRequest builds a request with a JSON body and an optional bearer token.
func JSONRequest(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	return req
}
