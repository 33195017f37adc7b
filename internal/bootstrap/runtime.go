// Package bootstrap performs the one-shot startup routine shared by the
// server and the CLI tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"skillswap/internal/auth"
	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/seed"
	"skillswap/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData populates an empty database with demo users and swaps.
	SeedDemoData bool
}

// Runtime holds the process-wide dependencies created at startup.
type Runtime struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Photos storage.PhotoStore
}

// InitRuntime prepares photo storage, connects to the database and Redis, and
// applies the development-only bootstrap steps.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	photos, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("photo store init failed: %w", err)
	}
	if local, ok := photos.(*storage.LocalStore); ok {
		if err := local.EnsureDir(); err != nil {
			return nil, fmt.Errorf("upload directory init failed: %w", err)
		}
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()

	if err := ensureDevRootAdmin(ctx, cfg, db); err != nil {
		return nil, fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}

	if opts.SeedDemoData {
		if err := seedIfEmpty(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return &Runtime{DB: db, Redis: rdb, Photos: photos}, nil
}

func seedIfEmpty(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		middleware.Logger.Info("demo seed skipped: database not empty", slog.Int64("users", count))
		return nil
	}
	s, err := seed.NewSeeder(db, seed.DefaultOptions())
	if err != nil {
		return err
	}
	_, err = s.Run(ctx)
	return err
}

// ensureDevRootAdmin creates or promotes the configured root account in
// development when DEV_BOOTSTRAP_ROOT is set.
func ensureDevRootAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapRoot {
		return nil
	}

	username := strings.TrimSpace(cfg.DevRootUsername)
	if username == "" {
		username = "skillswap_root"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = "root@skillswap.local"
	}
	password := cfg.DevRootPassword
	if password == "" {
		return fmt.Errorf("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	var rootID uint
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.Where("email = ?", email).First(&root).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				Email:        email,
				Username:     username,
				PasswordHash: hashedPassword,
				Name:         "Root Admin",
				Availability: models.AvailabilityAnytime,
				Visibility:   models.VisibilityPrivate,
				Role:         models.RoleAdmin,
				IsActive:     true,
			}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			if err := tx.Model(&models.User{}).Where("id = ?", root.ID).Updates(map[string]any{
				"role":      models.RoleAdmin,
				"is_active": true,
				"is_banned": false,
			}).Error; err != nil {
				return err
			}
		}
		rootID = root.ID
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateActor(ctx, rootID)
	middleware.Logger.Info("development root admin ensured",
		slog.Uint64("user_id", uint64(rootID)),
		slog.String("email", email),
	)
	return nil
}
