// Package bootstrap wires runtime dependencies (database, Redis, default
// settings) for the cmd entry points.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// EnsureDefaults creates missing default settings rows, such as
	// ALLOW_REGISTRATION.
	EnsureDefaults bool
}

// InitRuntime connects to DB and Redis and optionally seeds default settings.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.EnsureDefaults {
		if err := EnsureDefaultSettings(context.Background(), db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed default settings: %w", err)
		}
	}

	return db, r, nil
}

// EnsureDefaultSettings inserts the settings rows the application expects,
// leaving existing values untouched.
func EnsureDefaultSettings(ctx context.Context, db *gorm.DB) error {
	defaults := []models.Setting{
		{
			Key:         models.SettingAllowRegistration,
			Value:       "true",
			Description: "Whether new account signup is open",
		},
	}

	for _, def := range defaults {
		var existing models.Setting
		err := db.WithContext(ctx).Where("key = ?", def.Key).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.WithContext(ctx).Create(&def).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}
	}
	return nil
}
