package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"skillswap/internal/auth"
	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:             "development",
		DBDriver:        "sqlite",
		SQLitePath:      ":memory:",
		UploadDir:       filepath.Join(t.TempDir(), "uploads"),
		UploadURLPrefix: "/static/uploads",
		PhotoStore:      "local",
	}
}

func TestInitRuntime_PreparesDependencies(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Cleanup(func() { cache.SetClient(nil) })

	cfg := testConfig(t)
	cfg.RedisURL = mr.Addr()
	cfg.DevBootstrapRoot = true
	cfg.DevRootEmail = "Root@Example.com"
	cfg.DevRootPassword = "root-password"

	rt, err := InitRuntime(context.Background(), cfg, Options{})
	require.NoError(t, err)
	require.NotNil(t, rt.DB)
	require.NotNil(t, rt.Redis)
	require.NotNil(t, rt.Photos)

	info, err := os.Stat(cfg.UploadDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	var root models.User
	require.NoError(t, rt.DB.Where("email = ?", "root@example.com").First(&root).Error)
	assert.Equal(t, models.RoleAdmin, root.Role)
	assert.Equal(t, "skillswap_root", root.Username)
	assert.True(t, auth.VerifyPassword("root-password", root.PasswordHash))
}

func TestEnsureDevRootAdmin_PromotesExisting(t *testing.T) {
	t.Cleanup(func() { cache.SetClient(nil) })
	cfg := testConfig(t)

	rt, err := InitRuntime(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Nil(t, rt.Redis)

	hash, err := auth.HashPassword("whatever-pass")
	require.NoError(t, err)
	existing := models.User{
		Email: "root@skillswap.local", Username: "oldroot", PasswordHash: hash, Name: "Old",
		Availability: models.AvailabilityAnytime, Visibility: models.VisibilityPublic,
		Role: models.RoleUser, IsBanned: true,
	}
	require.NoError(t, rt.DB.Create(&existing).Error)

	cfg.DevBootstrapRoot = true
	cfg.DevRootPassword = "root-password"
	require.NoError(t, ensureDevRootAdmin(context.Background(), cfg, rt.DB))

	var users []models.User
	require.NoError(t, rt.DB.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	assert.True(t, users[0].IsActive)
	assert.False(t, users[0].IsBanned)
}

func TestEnsureDevRootAdmin_Guards(t *testing.T) {
	t.Cleanup(func() { cache.SetClient(nil) })
	cfg := testConfig(t)
	rt, err := InitRuntime(context.Background(), cfg, Options{})
	require.NoError(t, err)

	cfg.DevBootstrapRoot = true
	err = ensureDevRootAdmin(context.Background(), cfg, rt.DB)
	assert.ErrorContains(t, err, "DEV_ROOT_PASSWORD")

	cfg.Env = "production"
	assert.NoError(t, ensureDevRootAdmin(context.Background(), cfg, rt.DB))

	var count int64
	require.NoError(t, rt.DB.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInitRuntime_SeedsEmptyDatabase(t *testing.T) {
	t.Cleanup(func() { cache.SetClient(nil) })
	cfg := testConfig(t)

	rt, err := InitRuntime(context.Background(), cfg, Options{SeedDemoData: true})
	require.NoError(t, err)

	var count int64
	require.NoError(t, rt.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(20), count)

	require.NoError(t, seedIfEmpty(context.Background(), rt.DB))
	require.NoError(t, rt.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(20), count)
}
