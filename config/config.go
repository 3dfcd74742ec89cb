package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"resort-backend/utils"
)

// Config is read once at startup.
type Config struct {
	Port    string
	GinMode string

	JWTSecret     string
	CookieSecure  bool
	CorsOrigins   string
	UploadDir     string
	RedisURL      string
	LogLevel      slog.Level
	AdminName     string
	AdminEmail    string
	AdminPassword string

	DB DBConfig
}

type DBConfig struct {
	Driver          string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Load reads the process environment. A missing JWT_SECRET is an error.
func Load() (Config, error) {
	cfg := Config{
		Port:          utils.EnvOrDefault("PORT", "8080"),
		GinMode:       utils.EnvOrDefault("GIN_MODE", "release"),
		JWTSecret:     utils.EnvOrDefault("JWT_SECRET", ""),
		CookieSecure:  utils.EnvBool("COOKIE_SECURE", true),
		CorsOrigins:   utils.EnvOrDefault("CORS_ORIGINS", ""),
		UploadDir:     utils.EnvOrDefault("UPLOAD_DIR", "uploads"),
		RedisURL:      utils.EnvOrDefault("REDIS_URL", ""),
		LogLevel:      parseLevel(utils.EnvOrDefault("LOG_LEVEL", "info")),
		AdminName:     utils.EnvOrDefault("ADMIN_NAME", "Admin"),
		AdminEmail:    utils.EnvOrDefault("ADMIN_EMAIL", ""),
		AdminPassword: utils.EnvOrDefault("ADMIN_PASSWORD", ""),
		DB: DBConfig{
			Driver:          strings.ToLower(utils.EnvOrDefault("DB_DRIVER", "mysql")),
			SQLitePath:      utils.EnvOrDefault("SQLITE_PATH", "resort.db"),
			MaxOpenConns:    utils.EnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    utils.EnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: time.Duration(utils.EnvInt("DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,
		},
	}

	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET environment variable is not set")
	}
	return cfg, nil
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
