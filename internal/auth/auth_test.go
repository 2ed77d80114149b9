package auth

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

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

	require.NoError(t, db.AutoMigrate(&models.Admin{}))

	return db
}

func newTestIssuer(t *testing.T, ttl time.Duration) *TokenIssuer {
	t.Helper()

	tokens, err := NewTokenIssuer("test-secret", "catalog", ttl)
	require.NoError(t, err)

	return tokens
}

func TestLocalProvider(t *testing.T) {
	db := setupTestDB(t)
	p := NewLocalProvider(db)
	ctx := context.Background()

	require.NoError(t, p.EnsureAdmin(ctx, "admin", "changeme"))
	// second call must not create a second admin or touch the password
	require.NoError(t, p.EnsureAdmin(ctx, "other", "other"))

	var count int64
	db.Model(&models.Admin{}).Count(&count)
	assert.Equal(t, int64(1), count)

	testCases := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid", username: "admin", password: "changeme"},
		{name: "wrong password", username: "admin", password: "nope", wantErr: ErrInvalidPassword},
		{name: "unknown user", username: "ghost", password: "changeme", wantErr: ErrUserNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			admin, err := p.Authenticate(ctx, tc.username, tc.password)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, admin)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.username, admin.Username)
		})
	}

	t.Run("disabled account", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Admin{}).Where("username = ?", "admin").Update("active", false).Error)
		t.Cleanup(func() {
			db.Model(&models.Admin{}).Where("username = ?", "admin").Update("active", true)
		})

		_, err := p.Authenticate(ctx, "admin", "changeme")
		require.ErrorIs(t, err, ErrUserAccountDisabled)
	})

	t.Run("set password", func(t *testing.T) {
		require.NoError(t, p.SetPassword(ctx, "admin", "n3w"))

		_, err := p.Authenticate(ctx, "admin", "n3w")
		require.NoError(t, err)

		require.ErrorIs(t, p.SetPassword(ctx, "ghost", "x"), ErrUserNotFound)
	})
}

func TestLocalProvider_EnsureAdminWithHash(t *testing.T) {
	p := NewLocalProvider(setupTestDB(t))
	ctx := context.Background()

	hash, err := models.HashPassword("hashed-pw")
	require.NoError(t, err)

	require.NoError(t, p.EnsureAdmin(ctx, "admin", hash))

	admin, err := p.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, hash, admin.Password)

	_, err = p.Authenticate(ctx, "admin", "hashed-pw")
	require.NoError(t, err)
}

// An unknown username must cost a password hash check like a wrong password does.
func TestUnknownUserChecksDummyHash(t *testing.T) {
	dummy := dummyAdmin()
	assert.True(t, models.IsPasswordHash(dummy.Password))
	assert.False(t, dummy.VerifyPassword("catalog-unknown-users-password"))

	var checked []string

	orig := checkDummy
	checkDummy = func(password string) { checked = append(checked, password) }
	t.Cleanup(func() { checkDummy = orig })

	ctx := context.Background()

	local := NewLocalProvider(setupTestDB(t))
	require.NoError(t, local.EnsureAdmin(ctx, "admin", "changeme"))

	hash, err := models.HashPassword("s3cret")
	require.NoError(t, err)

	_, err = local.Authenticate(ctx, "ghost", "pw1")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = NewConfigProvider("admin", hash).Authenticate(ctx, "ghost", "pw2")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = local.Authenticate(ctx, "admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	assert.Equal(t, []string{"pw1", "pw2"}, checked, "only unknown users hit the dummy hash")
}

func TestConfigProvider(t *testing.T) {
	ctx := context.Background()

	hash, err := models.HashPassword("s3cret")
	require.NoError(t, err)

	for name, p := range map[string]*ConfigProvider{
		"plain": NewConfigProvider("admin", "s3cret"),
		"hash":  NewConfigProvider("admin", hash),
	} {
		t.Run(name, func(t *testing.T) {
			admin, err := p.Authenticate(ctx, "admin", "s3cret")
			require.NoError(t, err)
			assert.Equal(t, "admin", admin.Username)

			_, err = p.Authenticate(ctx, "admin", "wrong")
			require.ErrorIs(t, err, ErrInvalidPassword)

			_, err = p.Authenticate(ctx, "root", "s3cret")
			require.ErrorIs(t, err, ErrUserNotFound)
		})
	}
}

func TestTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer("", "catalog", 0)
	require.ErrorIs(t, err, ErrEmptySecret)

	admin := &models.Admin{ID: 7, Username: "admin"}

	t.Run("round trip without expiry", func(t *testing.T) {
		tokens := newTestIssuer(t, 0)

		raw, err := tokens.Issue(admin)
		require.NoError(t, err)

		claims, err := tokens.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, "7", claims.Subject)
		assert.Nil(t, claims.ExpiresAt)
	})

	t.Run("expired", func(t *testing.T) {
		tokens := newTestIssuer(t, time.Minute)
		tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }

		raw, err := tokens.Issue(admin)
		require.NoError(t, err)

		tokens.now = time.Now

		_, err = tokens.Parse(raw)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("foreign secret", func(t *testing.T) {
		other, err := NewTokenIssuer("other-secret", "catalog", 0)
		require.NoError(t, err)

		raw, err := other.Issue(admin)
		require.NoError(t, err)

		_, err = newTestIssuer(t, 0).Parse(raw)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		other, err := NewTokenIssuer("test-secret", "someone-else", 0)
		require.NoError(t, err)

		raw, err := other.Issue(admin)
		require.NoError(t, err)

		_, err = newTestIssuer(t, 0).Parse(raw)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage and empty", func(t *testing.T) {
		tokens := newTestIssuer(t, 0)

		_, err := tokens.Parse("not.a.token")
		require.ErrorIs(t, err, ErrTokenInvalid)

		_, err = tokens.Parse("")
		require.ErrorIs(t, err, ErrTokenMissing)
	})
}

func TestServiceLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewConfigProvider("admin", "changeme"), newTestIssuer(t, 0))

	res, err := svc.Login(ctx, "admin", "changeme")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, User{ID: "1", Username: "admin"}, res.User)

	claims, err := svc.Tokens().Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	for _, creds := range [][2]string{{"admin", "wrong"}, {"ghost", "changeme"}, {"", ""}} {
		res, err = svc.Login(ctx, creds[0], creds[1])
		require.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, res)
	}
}
