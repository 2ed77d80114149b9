package setting

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()

	for _, setting := range settings {
		err := db.Create(&setting).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingType   catalog.SettingType
		seedData      []models.Setting
		expectedError error
		expectedValue string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingType:   catalog.SettingAbout,
			expectedError: ErrDBNil,
		},
		{
			name:          "unknown type",
			dbParam:       db,
			settingType:   "footer",
			expectedError: catalog.ErrValidation,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingType:   catalog.SettingPrivacy,
			expectedError: catalog.ErrNotFound,
		},
		{
			name:        "successful get",
			dbParam:     db,
			settingType: catalog.SettingAddress,
			seedData: []models.Setting{
				{Type: "address", Content: "12 Forge Lane"},
			},
			expectedValue: "12 Forge Lane",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Get(tc.dbParam, tc.settingType)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(tc.settingType), setting.Type)
			assert.Equal(t, tc.expectedValue, setting.Content)
		})
	}
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetAll(nil)
	require.ErrorIs(t, err, ErrDBNil)

	settings, err := GetAll(db)
	require.NoError(t, err)
	assert.Empty(t, settings)

	seedSettings(t, db, []models.Setting{
		{Type: "about", Content: "We build machines"},
		{Type: "map", Content: "<iframe></iframe>"},
	})

	settings, err = GetAll(db)
	require.NoError(t, err)
	assert.Len(t, settings, 2)
}

func TestSet(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := Set(nil, catalog.SettingAbout, "x")
		require.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := Set(setupTestDB(t), "footer", "x")
		require.ErrorIs(t, err, ErrSettingTypeInvalid)
	})

	t.Run("creates on first write", func(t *testing.T) {
		db := setupTestDB(t)

		s, err := Set(db, catalog.SettingAbout, "first")
		require.NoError(t, err)
		assert.Equal(t, "first", s.Content)
		assert.NotZero(t, s.ID)
	})

	t.Run("overwrites existing", func(t *testing.T) {
		db := setupTestDB(t)

		first, err := Set(db, catalog.SettingAbout, "first")
		require.NoError(t, err)

		second, err := Set(db, catalog.SettingAbout, "second")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "second", second.Content)
	})

	t.Run("same pair twice leaves one value", func(t *testing.T) {
		db := setupTestDB(t)

		for range 2 {
			_, err := Set(db, catalog.SettingDisclaimer, "No warranty")
			require.NoError(t, err)
		}

		var count int64
		db.Model(&models.Setting{}).Where(typeQueryPattern, "disclaimer").Count(&count)
		assert.Equal(t, int64(1), count)

		s, err := Get(db, catalog.SettingDisclaimer)
		require.NoError(t, err)
		assert.Equal(t, "No warranty", s.Content)
	})
}

func TestStore(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, store.Set(ctx, catalog.SettingAddress, "12 Forge Lane"))
	require.NoError(t, store.Set(ctx, catalog.SettingMap, "<iframe src=x>"))
	require.NoError(t, store.Set(ctx, catalog.SettingAddress, "14 Forge Lane"))

	all, err = store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[catalog.SettingType]string{
		catalog.SettingAddress: "14 Forge Lane",
		catalog.SettingMap:     "<iframe src=x>",
	}, all)

	require.ErrorIs(t, store.Set(ctx, "footer", "x"), catalog.ErrValidation)

	_, err = NewStore(nil).All(ctx)
	require.ErrorIs(t, err, ErrDBNil)
}
