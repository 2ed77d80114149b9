package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/auth"
	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/db/models"
)

const (
	productsPath = "/api/products"
	settingsPath = "/api/settings"
	loginPath    = "/api/admin/login"
	verifyPath   = "/api/admin/verify"

	imagesField = "images"
)

// APIError is a non-successful answer of the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// ProductInput holds the product fields sent on create or update.
// Empty strings and a nil Stock are left out of the request.
type ProductInput struct {
	Name  string
	Desc  string
	Price string
	SKU   string
	Stock *int
}

// StagedFile is an image file waiting to be uploaded.
type StagedFile struct {
	Name string
	Data []byte
}

// envelope is the union of all API response bodies.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Token   string          `json:"token"`
	User    auth.User       `json:"user"`
	Product *models.Product `json:"product"`
	Data    json.RawMessage `json:"data"`
}

// API calls the catalog HTTP API on behalf of a Session.
type API struct {
	httpClient *http.Client
	baseURL    string
	session    *Session
	debug      bool
}

// NewAPI constructs an API client for the server at baseURL.
// Calls have no timeout unless SetTimeout is used.
func NewAPI(baseURL string, session *Session) *API {
	return &API{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
	}
}

// SetTimeout bounds each call to d. 0 removes the bound.
func (a *API) SetTimeout(d time.Duration) {
	a.httpClient.Timeout = d
}

// SetDebug enables request and response logging.
func (a *API) SetDebug(debug bool) {
	a.debug = debug
}

// BaseURL returns the server origin.
func (a *API) BaseURL() string {
	return a.baseURL
}

// Login exchanges credentials for a token. It does not touch the session.
func (a *API) Login(ctx context.Context, username, password string) (*auth.LoginResult, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err = a.do(ctx, http.MethodPost, loginPath, bytes.NewReader(body), "application/json", false, &env); err != nil {
		return nil, err
	}

	return &auth.LoginResult{Token: env.Token, User: env.User}, nil
}

// Verify checks that the session token is still accepted.
func (a *API) Verify(ctx context.Context) (auth.User, error) {
	var env envelope
	if err := a.do(ctx, http.MethodGet, verifyPath, nil, "", true, &env); err != nil {
		return auth.User{}, err
	}

	return env.User, nil
}

// Products returns all products in store order, or none on any failure.
func (a *API) Products(ctx context.Context) []models.Product {
	var env envelope
	if err := a.do(ctx, http.MethodGet, productsPath, nil, "", false, &env); err != nil {
		log.Warn().Err(err).Msg("failed to fetch products")
		return []models.Product{}
	}

	products := []models.Product{}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &products); err != nil {
			log.Warn().Err(err).Msg("failed to decode products")
			return []models.Product{}
		}
	}

	return products
}

// Settings returns all stored settings, or none on any failure.
func (a *API) Settings(ctx context.Context) map[catalog.SettingType]string {
	settings := map[catalog.SettingType]string{}

	var env envelope
	if err := a.do(ctx, http.MethodGet, settingsPath, nil, "", false, &env); err != nil {
		log.Warn().Err(err).Msg("failed to fetch settings")
		return settings
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &settings); err != nil {
			log.Warn().Err(err).Msg("failed to decode settings")
			return map[catalog.SettingType]string{}
		}
	}

	return settings
}

// CreateProduct creates a product with the given images.
func (a *API) CreateProduct(ctx context.Context, in ProductInput, files []StagedFile) (*models.Product, error) {
	return a.sendProduct(ctx, http.MethodPost, productsPath, in, files, false)
}

// UpdateProduct changes a product. Images are appended unless replace is set.
func (a *API) UpdateProduct(ctx context.Context, id string, in ProductInput, files []StagedFile, replace bool) (*models.Product, error) {
	return a.sendProduct(ctx, http.MethodPut, productsPath+"/"+url.PathEscape(id), in, files, replace)
}

// DeleteProduct removes a product.
func (a *API) DeleteProduct(ctx context.Context, id string) error {
	var env envelope
	return a.do(ctx, http.MethodDelete, productsPath+"/"+url.PathEscape(id), nil, "", true, &env)
}

// UpdateSetting creates or overwrites one setting.
func (a *API) UpdateSetting(ctx context.Context, t catalog.SettingType, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return err
	}

	var env envelope
	return a.do(ctx, http.MethodPut, settingsPath+"/"+url.PathEscape(string(t)), bytes.NewReader(body), "application/json", true, &env)
}

func (a *API) sendProduct(ctx context.Context, method, path string, in ProductInput, files []StagedFile, replace bool) (*models.Product, error) {
	body, contentType, err := productForm(in, files, replace)
	if err != nil {
		return nil, fmt.Errorf("failed to build product form: %w", err)
	}

	var env envelope
	if err = a.do(ctx, method, path, body, contentType, true, &env); err != nil {
		return nil, err
	}

	if env.Product == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "response carries no product"}
	}

	return env.Product, nil
}

// productForm encodes a product as multipart form data.
func productForm(in ProductInput, files []StagedFile, replace bool) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := [][2]string{
		{"name", in.Name},
		{"desc", in.Desc},
		{"price", in.Price},
		{"sku", in.SKU},
	}

	if in.Stock != nil {
		fields = append(fields, [2]string{"stock", strconv.Itoa(*in.Stock)})
	}

	if replace {
		fields = append(fields, [2]string{"replaceImages", "true"})
	}

	for _, f := range fields {
		if f[1] == "" {
			continue
		}

		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, imagesField, f.Name))
		h.Set("Content-Type", mimetype.Detect(f.Data).String())

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}

		if _, err = part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}

// do sends one request and decodes the JSON answer into out. A non-2xx status
// or success:false becomes an *APIError.
func (a *API) do(ctx context.Context, method, path string, body io.Reader, contentType string, withToken bool, out *envelope) error {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if withToken && a.session != nil {
		if token := a.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if a.debug {
		log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status_code", resp.StatusCode).
			Int("bytes", len(respBody)).
			Msg("api response")
	}

	decodeErr := json.Unmarshal(respBody, out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || (decodeErr == nil && !out.Success) {
		msg := out.Message
		if msg == "" {
			msg = out.Error
		}

		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}

		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	return nil
}
