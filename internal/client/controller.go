package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mrengworks/catalog/internal/auth"
	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/storefront"
)

// Toast messages.
const (
	MsgLoginOK          = "Login successful!"
	MsgInvalidCreds     = "Invalid credentials"
	MsgLoginFailed      = "Login failed"
	MsgConfirmDelete    = "Are you sure you want to delete this product? This action cannot be undone."
	MsgProductDeleted   = "Product deleted successfully"
	MsgProductAdded     = "New product added successfully"
	MsgProductUpdated   = "Product updated successfully"
	MsgLocationUpdated  = "Location updated successfully"
	MsgCompanyInfoSaved = "Company info updated"
	MsgSessionExpired   = "Session expired, please log in again"
)

// ErrCancelled is returned when the user declines a confirmation.
var ErrCancelled = errors.New("cancelled")

// Storefront renders the public product grid.
type Storefront struct {
	api      *API
	renderer Renderer
	opts     storefront.Options
}

// NewStorefront returns a Storefront for the API's server.
func NewStorefront(api *API, renderer Renderer, opts storefront.Options) *Storefront {
	return &Storefront{api: api, renderer: renderer, opts: opts}
}

// Render fetches all products and redraws the grid in store order.
func (s *Storefront) Render(ctx context.Context) error {
	return s.renderer.RenderStorefront(s.opts.Cards(s.api.Products(ctx)))
}

// Options configures a Controller.
type Options struct {
	API       *API
	Session   *Session
	Renderer  Renderer
	Notifier  Notifier
	Confirmer Confirmer
	Shaping   storefront.Options
	// Slots is the number of image slots, DefaultSlots if <= 0.
	Slots int
}

// Controller drives the admin client.
type Controller struct {
	api        *API
	session    *Session
	renderer   Renderer
	notifier   Notifier
	confirmer  Confirmer
	shaping    storefront.Options
	storefront *Storefront
	forms      *Forms
	slots      *ImageSlots
	ready      atomic.Bool
}

// NewController returns a Controller showing nothing yet. Call Restore or
// HandleLogin to pick a panel.
func NewController(o Options) *Controller {
	if o.Confirmer == nil {
		o.Confirmer = ConfirmFunc(func(string) bool { return false })
	}

	if o.Shaping.BaseURL == "" && o.API != nil {
		o.Shaping.BaseURL = o.API.BaseURL()
	}

	return &Controller{
		api:        o.API,
		session:    o.Session,
		renderer:   o.Renderer,
		notifier:   o.Notifier,
		confirmer:  o.Confirmer,
		shaping:    o.Shaping,
		storefront: NewStorefront(o.API, o.Renderer, o.Shaping),
		forms:      NewForms(),
		slots:      NewImageSlots(o.Slots),
	}
}

// Session returns the controller's session.
func (c *Controller) Session() *Session {
	return c.session
}

// Slots returns the image slots of the add product form.
func (c *Controller) Slots() *ImageSlots {
	return c.slots
}

// Forms returns the form registry.
func (c *Controller) Forms() *Forms {
	return c.forms
}

// Ready reports whether all dashboard panels have been initialised.
func (c *Controller) Ready() bool {
	return c.ready.Load()
}

// Restore picks the startup panel according to the session's restore policy.
func (c *Controller) Restore(ctx context.Context) error {
	if !c.session.ShowDashboard() {
		return c.renderer.ShowPanel(PanelLogin)
	}

	if err := c.renderer.ShowPanel(PanelDashboard); err != nil {
		return err
	}

	return c.initDashboard(ctx)
}

// HandleLogin logs in, persists the session and opens the dashboard.
func (c *Controller) HandleLogin(ctx context.Context, username, password string) error {
	res, err := c.api.Login(ctx, username, password)
	if err != nil {
		var apiErr *APIError

		switch {
		case errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized:
			c.toast(ToastError, MsgInvalidCreds)
		case apiErr != nil:
			c.toast(ToastError, apiErr.Message)
		default:
			c.toast(ToastError, MsgLoginFailed)
		}

		return err
	}

	if err = c.session.Begin(res.Token, res.User); err != nil {
		c.toast(ToastError, MsgLoginFailed)
		return err
	}

	if err = c.renderer.ShowPanel(PanelDashboard); err != nil {
		return err
	}

	if err = c.initDashboard(ctx); err != nil {
		return err
	}

	log.Info().Str("username", res.User.Username).Msg("admin logged in")
	c.toast(ToastSuccess, MsgLoginOK)

	return nil
}

// Logout forgets the session and shows the login panel.
func (c *Controller) Logout() error {
	c.ready.Store(false)

	if err := c.session.Clear(); err != nil {
		return err
	}

	return c.renderer.ShowPanel(PanelLogin)
}

// initDashboard sets up the four admin panels. They touch disjoint regions,
// so they run concurrently; the dashboard is ready once all have finished.
func (c *Controller) initDashboard(ctx context.Context) error {
	c.ready.Store(false)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(c.resetSlots)
	g.Go(func() error { return c.LoadAdminProducts(gctx) })
	g.Go(func() error { return c.LoadAdminSettings(gctx) })
	g.Go(func() error { return c.InitAdminForms(gctx) })

	if err := g.Wait(); err != nil {
		return err
	}

	c.ready.Store(true)

	return nil
}

// Status describes what Dashboard ended up showing.
type Status struct {
	Panel Panel
	User  auth.User
	// Authenticated is true only after a login in this process.
	Authenticated bool
	Ready         bool
}

// Dashboard opens the panel the restore policy allows. A stored token is
// checked with the server first; a rejected token ends the session.
func (c *Controller) Dashboard(ctx context.Context) (Status, error) {
	st := Status{Panel: PanelLogin}

	if c.session.ShowDashboard() {
		user, err := c.api.Verify(ctx)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
				c.toast(ToastError, MsgSessionExpired)
				return st, c.Logout()
			}

			return st, err
		}

		st.User = user
	}

	if err := c.Restore(ctx); err != nil {
		return st, err
	}

	if c.Ready() {
		st.Panel = PanelDashboard
	}

	st.Authenticated = c.session.Authenticated()
	st.Ready = c.Ready()

	return st, nil
}

// StageImage puts an image into slot i and redraws the slot previews.
func (c *Controller) StageImage(i int, name string, data []byte) error {
	if err := c.slots.Stage(i, name, data); err != nil {
		return err
	}

	return c.renderer.RenderSlots(c.slots.Previews())
}

// RemoveImage empties slot i and redraws the slot previews.
func (c *Controller) RemoveImage(i int) error {
	if err := c.slots.Remove(i); err != nil {
		return err
	}

	return c.renderer.RenderSlots(c.slots.Previews())
}

func (c *Controller) resetSlots() error {
	c.slots.Reset()
	return c.renderer.RenderSlots(c.slots.Previews())
}

// LoadAdminProducts redraws the admin product list.
func (c *Controller) LoadAdminProducts(ctx context.Context) error {
	return c.renderer.RenderAdminProducts(c.shaping.AdminRows(c.api.Products(ctx)))
}

// RenderStorefront redraws the public product grid.
func (c *Controller) RenderStorefront(ctx context.Context) error {
	return c.storefront.Render(ctx)
}

// LoadAdminSettings redraws the settings forms with the stored values.
func (c *Controller) LoadAdminSettings(ctx context.Context) error {
	return c.renderer.RenderSettings(c.api.Settings(ctx))
}

// DeleteProduct deletes a product after confirmation and redraws both lists.
func (c *Controller) DeleteProduct(ctx context.Context, id string) error {
	if !c.confirmer.Confirm(MsgConfirmDelete) {
		return ErrCancelled
	}

	if err := c.api.DeleteProduct(ctx, id); err != nil {
		c.toast(ToastError, "Error: "+errorMessage(err))
		return err
	}

	if err := c.refreshLists(ctx); err != nil {
		return err
	}

	c.toast(ToastSuccess, MsgProductDeleted)

	return nil
}

// InitAdminForms attaches the submit handlers of the admin forms.
// Calling it again leaves the already attached handlers in place.
func (c *Controller) InitAdminForms(_ context.Context) error {
	c.forms.Bind(FormAddProduct, c.submitProduct)
	c.forms.Bind(FormLocation, c.submitSettings(MsgLocationUpdated,
		catalog.SettingAddress, catalog.SettingMap))
	c.forms.Bind(FormCompanyInfo, c.submitSettings(MsgCompanyInfoSaved,
		catalog.SettingAbout, catalog.SettingPrivacy, catalog.SettingDisclaimer))

	return nil
}

// Submit submits a form.
func (c *Controller) Submit(ctx context.Context, form string, v FormValues) error {
	return c.forms.Submit(ctx, form, v)
}

// submitProduct creates a product, or updates it when the form carries an id.
// Staged images go along and the slots are emptied on success.
func (c *Controller) submitProduct(ctx context.Context, v FormValues) error {
	in := ProductInput{
		Name:  v["name"],
		Desc:  v["desc"],
		Price: v["price"],
		SKU:   strings.TrimSpace(v["sku"]),
	}

	if raw := strings.TrimSpace(v["stock"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.toast(ToastError, "Error: stock must be at least 0")
			return catalog.NewValidationError("stock must be at least 0")
		}

		in.Stock = &n
	}

	files := c.slots.Files()

	var err error

	msg := MsgProductAdded

	if id := v["id"]; id != "" {
		replace, _ := strconv.ParseBool(v["replaceImages"])
		_, err = c.api.UpdateProduct(ctx, id, in, files, replace)
		msg = MsgProductUpdated
	} else {
		_, err = c.api.CreateProduct(ctx, in, files)
	}

	if err != nil {
		c.toast(ToastError, "Error: "+errorMessage(err))
		return err
	}

	if err = c.resetSlots(); err != nil {
		return err
	}

	if err = c.refreshLists(ctx); err != nil {
		return err
	}

	c.toast(ToastSuccess, msg)

	return nil
}

// submitSettings writes the listed settings from the form values in order.
func (c *Controller) submitSettings(okMsg string, types ...catalog.SettingType) SubmitFunc {
	return func(ctx context.Context, v FormValues) error {
		for _, t := range types {
			if err := c.api.UpdateSetting(ctx, t, v[string(t)]); err != nil {
				c.toast(ToastError, "Error: "+errorMessage(err))
				return err
			}
		}

		if err := c.LoadAdminSettings(ctx); err != nil {
			return err
		}

		c.toast(ToastSuccess, okMsg)

		return nil
	}
}

func (c *Controller) refreshLists(ctx context.Context) error {
	if err := c.LoadAdminProducts(ctx); err != nil {
		return err
	}

	return c.RenderStorefront(ctx)
}

func (c *Controller) toast(kind ToastKind, msg string) {
	if c.notifier != nil {
		c.notifier.Notify(kind, msg)
	}
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	var vErr *catalog.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}

	return err.Error()
}
