package catalog

import (
	"context"

	"github.com/mrengworks/catalog/internal/db/models"
)

// ProductStore persists products.
type ProductStore interface {
	// List returns all products in store order.
	List(ctx context.Context) ([]models.Product, error)
	// Get returns ErrNotFound if id is unknown.
	Get(ctx context.Context, id string) (*models.Product, error)
	// Create assigns the id and timestamps.
	Create(ctx context.Context, p *models.Product) error
	// Update replaces the stored fields of p.ID, ErrNotFound if it is gone.
	Update(ctx context.Context, p *models.Product) error
	// Delete removes the product for good, ErrNotFound if it is unknown.
	Delete(ctx context.Context, id string) error
}

// SettingStore persists site settings with upsert semantics.
type SettingStore interface {
	// All maps each stored setting type to its content.
	All(ctx context.Context) (map[SettingType]string, error)
	// Set creates or overwrites the content of t.
	Set(ctx context.Context, t SettingType, content string) error
}
