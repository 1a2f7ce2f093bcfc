// Package bootstrap wires the process-wide dependencies shared by the
// server and the admin commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"alumnet/internal/auth"
	"alumnet/internal/cache"
	"alumnet/internal/config"
	"alumnet/internal/database"
	"alumnet/internal/models"
	"alumnet/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultRootEmail = "root@alumnet.local"

// Options control runtime initialization behavior.
type Options struct {
	// SeedPreset, when set, fills an otherwise empty database with demo data.
	SeedPreset string
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; a nil client disables revocation and rate limiting.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := Prepare(ctx, cfg, db, opts); err != nil {
		return nil, nil, err
	}
	return db, r, nil
}

// Prepare runs the post-connect steps: the development root admin and the
// optional demo seed.
func Prepare(ctx context.Context, cfg *config.Config, db *gorm.DB, opts Options) error {
	if err := ensureDevRootAdmin(ctx, cfg, db); err != nil {
		return fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}
	if opts.SeedPreset != "" {
		if err := seedIfEmpty(ctx, cfg, db, opts.SeedPreset); err != nil {
			return fmt.Errorf("failed to seed %q preset: %w", opts.SeedPreset, err)
		}
	}
	return nil
}

func seedIfEmpty(ctx context.Context, cfg *config.Config, db *gorm.DB, preset string) error {
	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("role <> ?", models.RoleAdmin).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		slog.Info("skipping demo seed, database already has users", slog.Int64("users", users))
		return nil
	}
	_, err := seed.NewSeeder(db, seed.Options{BcryptCost: cfg.BcryptCost}).ApplyPreset(ctx, preset)
	return err
}

// ensureDevRootAdmin creates or promotes an active, approved ADMIN account in
// development when DEV_BOOTSTRAP_ROOT is enabled.
func ensureDevRootAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapRoot {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = defaultRootEmail
	}
	password := cfg.DevRootPassword
	if password == "" {
		return fmt.Errorf("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	digest, err := auth.NewBcryptHasher(cfg.BcryptCost).Hash(password)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	created := false
	if err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.Where("email = ?", email).First(&root).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			created = true
			root = models.User{
				Email:              email,
				Password:           digest,
				FirstName:          "Root",
				LastName:           "Admin",
				Role:               models.RoleAdmin,
				IsActive:           true,
				VerificationStatus: models.VerificationApproved,
			}
			return tx.Create(&root).Error
		case findErr != nil:
			return findErr
		default:
			return tx.Model(&root).Updates(map[string]any{
				"role":                models.RoleAdmin,
				"is_active":           true,
				"verification_status": models.VerificationApproved,
				"password":            digest,
			}).Error
		}
	}); err != nil {
		return err
	}

	slog.Info("development root admin ensured", slog.String("email", email), slog.Bool("created", created))
	return nil
}
