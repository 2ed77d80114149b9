// Package setting provides the gorm backed settings store.
package setting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/db/models"
)

const (
	typeQueryPattern = "setting_type = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = fmt.Errorf("setting %w", catalog.ErrNotFound)
	// ErrSettingTypeInvalid is returned for a type outside the fixed set.
	ErrSettingTypeInvalid = catalog.NewValidationError("Invalid setting type")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its type.
func Get(db *gorm.DB, t catalog.SettingType) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !t.Valid() {
		return nil, ErrSettingTypeInvalid
	}

	var setting models.Setting

	result := db.Where(typeQueryPattern, string(t)).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &setting, nil
}

// GetAll retrieves all settings from the database.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting

	result := db.Order("setting_type").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Set creates or overwrites the setting of type t in a single statement.
func Set(db *gorm.DB, t catalog.SettingType, content string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !t.Valid() {
		return nil, ErrSettingTypeInvalid
	}

	setting := &models.Setting{
		Type:      string(t),
		Content:   content,
		UpdatedAt: time.Now(),
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return Get(db, t)
}

// Store adapts the package functions to catalog.SettingStore.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// All implements catalog.SettingStore.
func (s *Store) All(ctx context.Context) (map[catalog.SettingType]string, error) {
	settings, err := GetAll(s.withContext(ctx))
	if err != nil {
		return nil, err
	}

	out := make(map[catalog.SettingType]string, len(settings))
	for _, st := range settings {
		out[catalog.SettingType(st.Type)] = st.Content
	}

	return out, nil
}

// Set implements catalog.SettingStore.
func (s *Store) Set(ctx context.Context, t catalog.SettingType, content string) error {
	_, err := Set(s.withContext(ctx), t, content)
	return err
}

func (s *Store) withContext(ctx context.Context) *gorm.DB {
	if s.db == nil {
		return nil
	}

	return s.db.WithContext(ctx)
}
