// Package product provides the gorm backed product store.
package product

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/db/models"
)

var (
	// ErrProductNotFound is returned when no product has the requested id.
	ErrProductNotFound = fmt.Errorf("product %w", catalog.ErrNotFound)
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrProductNil is returned when a nil product is passed in.
	ErrProductNil = errors.New("product is nil")
)

// List returns all products, oldest first.
func List(db *gorm.DB) ([]models.Product, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	products := make([]models.Product, 0)

	result := db.Order("created_at ASC").Order("id ASC").Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// Get returns the product with the given id.
func Get(db *gorm.DB, id string) (*models.Product, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Product

	result := db.Where("id = ?", id).First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}

		return nil, result.Error
	}

	return &p, nil
}

// Create inserts p. The id is assigned by the model hook.
func Create(db *gorm.DB, p *models.Product) error {
	if db == nil {
		return ErrDBNil
	}

	if p == nil {
		return ErrProductNil
	}

	return db.Create(p).Error
}

// Update writes every field of p to the row with p.ID.
func Update(db *gorm.DB, p *models.Product) error {
	if db == nil {
		return ErrDBNil
	}

	if p == nil {
		return ErrProductNil
	}

	if _, err := Get(db, p.ID); err != nil {
		return err
	}

	// Explicit columns so that zero values like Stock = 0 are written too.
	return db.Model(&models.Product{ID: p.ID}).
		Select("Name", "Desc", "Price", "SKU", "Stock", "Images", "UpdatedAt").
		Updates(p).Error
}

// Delete removes the product with the given id.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Store adapts the package functions to catalog.ProductStore.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// List implements catalog.ProductStore.
func (s *Store) List(ctx context.Context) ([]models.Product, error) {
	return List(s.withContext(ctx))
}

// Get implements catalog.ProductStore.
func (s *Store) Get(ctx context.Context, id string) (*models.Product, error) {
	return Get(s.withContext(ctx), id)
}

// Create implements catalog.ProductStore.
func (s *Store) Create(ctx context.Context, p *models.Product) error {
	return Create(s.withContext(ctx), p)
}

// Update implements catalog.ProductStore.
func (s *Store) Update(ctx context.Context, p *models.Product) error {
	return Update(s.withContext(ctx), p)
}

// Delete implements catalog.ProductStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	return Delete(s.withContext(ctx), id)
}

func (s *Store) withContext(ctx context.Context) *gorm.DB {
	if s.db == nil {
		return nil
	}

	return s.db.WithContext(ctx)
}
