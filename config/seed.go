package config

import (
	"context"
	"log/slog"

	"resort-backend/services"
)

var defaultCategories = []services.CategoryInput{
	{Name: "Rooms", Description: "Rooms and villas"},
	{Name: "Activities", Description: "Guided tours and outdoor activities"},
	{Name: "Spa", Description: "Spa and wellness treatments"},
}

// SeedDatabase creates the first admin when ADMIN_EMAIL and ADMIN_PASSWORD are
// set and no admin exists, and the default categories when none exist.
// Failures are logged and do not stop startup.
func SeedDatabase(ctx context.Context, cfg Config, credentials *services.CredentialService, categories *services.CategoryService, log *slog.Logger) {
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := credentials.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		switch {
		case err != nil:
			log.Warn("failed to seed admin", slog.Any("error", err))
		case created:
			log.Info("default admin seeded", slog.String("email", cfg.AdminEmail))
		}
	}

	n, err := categories.EnsureDefaults(ctx, defaultCategories)
	if err != nil {
		log.Warn("failed to seed categories", slog.Any("error", err))
		return
	}
	if n > 0 {
		log.Info("default categories seeded", slog.Int("count", n))
	}
}
