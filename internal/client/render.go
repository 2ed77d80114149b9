package client

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/storefront"
)

// Panel is the top level view of the admin client.
type Panel int

const (
	PanelLogin Panel = iota
	PanelDashboard
)

func (p Panel) String() string {
	if p == PanelDashboard {
		return "dashboard"
	}

	return "login"
}

// Renderer draws shaped data. Every call replaces what the region showed before.
// Regions are disjoint, so calls for different regions may run concurrently.
type Renderer interface {
	ShowPanel(p Panel) error
	RenderAdminProducts(rows []storefront.AdminRow) error
	RenderStorefront(cards []storefront.Card) error
	RenderSettings(settings map[catalog.SettingType]string) error
	// RenderSlots shows one preview per image slot, "" for an empty slot.
	RenderSlots(previews []string) error
}

// ToastKind tells a success toast from an error toast.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

// Notifier shows short-lived messages.
type Notifier interface {
	Notify(kind ToastKind, msg string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// MsgNoProducts is shown by an empty admin list.
const MsgNoProducts = "No products added yet. Add your first product above."

// TextRenderer renders to a terminal.
type TextRenderer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTextRenderer returns a TextRenderer writing to out.
func NewTextRenderer(out io.Writer) *TextRenderer {
	return &TextRenderer{out: out}
}

// ShowPanel implements Renderer.
func (r *TextRenderer) ShowPanel(p Panel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := fmt.Fprintf(r.out, "== %s ==\n", p)

	return err
}

// RenderAdminProducts implements Renderer.
func (r *TextRenderer) RenderAdminProducts(rows []storefront.AdminRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.out, MsgNoProducts)
		return err
	}

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSKU\tSTOCK\tPRICE\tIMAGES")

	for _, row := range rows {
		images := strings.Join(row.Thumbnails, " ")
		if row.NoImages {
			images = "No images"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", row.ID, row.Name, row.SKU, row.Stock, row.Price, images)
	}

	return tw.Flush()
}

// RenderStorefront implements Renderer.
func (r *TextRenderer) RenderStorefront(cards []storefront.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range cards {
		if _, err := fmt.Fprintf(r.out, "%s\n  %s\n  %s | SKU: %s\n  %s\n", c.Name, c.Desc, c.Price, c.SKU, c.Image); err != nil {
			return err
		}
	}

	return nil
}

// RenderSettings implements Renderer.
func (r *TextRenderer) RenderSettings(settings map[catalog.SettingType]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	for _, t := range catalog.SettingTypes() {
		fmt.Fprintf(tw, "%s\t%s\n", t, settings[t])
	}

	return tw.Flush()
}

// previewWidth is how much of a data URL is printed per slot.
const previewWidth = 40

// RenderSlots implements Renderer.
func (r *TextRenderer) RenderSlots(previews []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)

	for i, p := range previews {
		switch {
		case p == "":
			p = "(empty)"
		case len(p) > previewWidth:
			p = p[:previewWidth] + storefront.Ellipsis
		}

		fmt.Fprintf(tw, "slot %d\t%s\n", i+1, p)
	}

	return tw.Flush()
}

// Notify implements Notifier.
func (r *TextRenderer) Notify(kind ToastKind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := "ok"
	if kind == ToastError {
		prefix = "error"
	}

	fmt.Fprintf(r.out, "[%s] %s\n", prefix, msg)
}
