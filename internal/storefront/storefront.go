// Package storefront shapes products for display: the public product cards and
// the rows of the admin product list. It does no I/O.
package storefront

import (
	"strings"

	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/db/models"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

const (
	// DefaultNameLimit is the number of name characters shown before truncation.
	DefaultNameLimit = 80
	// DefaultDescLimit is the number of description characters shown before truncation.
	DefaultDescLimit = 120
	// MaxThumbnails is the number of images shown per admin row.
	MaxThumbnails = 5
	// DefaultPlaceholder is shown for products without images.
	DefaultPlaceholder = "https://images.unsplash.com/photo-1581091226033-d5c48150dbaa?w=400"
)

// Options controls how products are shaped.
type Options struct {
	// BaseURL is the origin relative image references are resolved against.
	BaseURL          string
	PlaceholderImage string
	NameLimit        int
	DescLimit        int
}

// NewOptions builds Options from the storefront configuration.
func NewOptions(cfg config.Storefront, baseURL string) Options {
	o := Options{
		BaseURL:          strings.TrimRight(baseURL, "/"),
		PlaceholderImage: cfg.PlaceholderImage,
		NameLimit:        cfg.NameLimit,
		DescLimit:        cfg.DescLimit,
	}

	if o.PlaceholderImage == "" {
		o.PlaceholderImage = DefaultPlaceholder
	}

	if o.NameLimit <= 0 {
		o.NameLimit = DefaultNameLimit
	}

	if o.DescLimit <= 0 {
		o.DescLimit = DefaultDescLimit
	}

	return o
}

// Card is one product in the public grid.
type Card struct {
	ID          string
	Name        string
	Desc        string
	Price       string
	SKU         string
	Image       string
	Placeholder bool
}

// AdminRow is one product in the admin list.
type AdminRow struct {
	ID         string
	Name       string
	Price      string
	SKU        string
	Stock      int
	Thumbnails []string
	NoImages   bool
}

// Truncate shortens s to limit characters and appends Ellipsis if anything was cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + Ellipsis
}

// ResolveAsset makes ref absolute. Absolute URLs are returned unchanged.
func (o Options) ResolveAsset(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "data:") {
		return ref
	}

	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}

	return o.BaseURL + ref
}

// Cards shapes products for the storefront, keeping their order.
func (o Options) Cards(products []models.Product) []Card {
	cards := make([]Card, 0, len(products))

	for i := range products {
		p := &products[i]

		card := Card{
			ID:    p.ID,
			Name:  Truncate(p.Name, o.NameLimit),
			Desc:  Truncate(p.Desc, o.DescLimit),
			Price: p.Price,
			SKU:   p.SKU,
		}

		if thumb := p.Thumbnail(); thumb != "" {
			card.Image = o.ResolveAsset(thumb)
		} else {
			card.Image = o.PlaceholderImage
			card.Placeholder = true
		}

		cards = append(cards, card)
	}

	return cards
}

// AdminRows shapes products for the admin list, keeping their order.
func (o Options) AdminRows(products []models.Product) []AdminRow {
	rows := make([]AdminRow, 0, len(products))

	for i := range products {
		p := &products[i]

		n := min(len(p.Images), MaxThumbnails)
		thumbs := make([]string, 0, n)

		for _, img := range p.Images[:n] {
			thumbs = append(thumbs, o.ResolveAsset(img))
		}

		rows = append(rows, AdminRow{
			ID:         p.ID,
			Name:       Truncate(p.Name, o.NameLimit),
			Price:      p.Price,
			SKU:        p.SKU,
			Stock:      p.Stock,
			Thumbnails: thumbs,
			NoImages:   n == 0,
		})
	}

	return rows
}
