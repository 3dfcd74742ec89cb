package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"resort-backend/config"
	"resort-backend/controllers"
	"resort-backend/repository"
	"resort-backend/routes"
	"resort-backend/services"
)

func main() {
	// .env is optional
	envErr := godotenv.Load()

	cfg, err := config.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	if envErr != nil {
		log.Info(".env not loaded; continuing with process environment")
	}
	if err != nil {
		log.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	gormLevel := logger.Warn
	if cfg.LogLevel <= slog.LevelDebug {
		gormLevel = logger.Info
	}
	db, err := config.ConnectDatabase(cfg.DB, gormLevel)
	if err != nil {
		log.Error("database connect failed", slog.String("driver", cfg.DB.Driver), slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("database ready", slog.String("driver", cfg.DB.Driver))

	// Left as a nil interface when Redis is not configured.
	var revocations services.RevocationStore
	if cfg.RedisURL != "" {
		client, err := config.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer client.Close()
		revocations = services.NewRedisRevocationStore(client)
		log.Info("session revocation enabled")
	}

	users := repository.NewGormUserRepository(db)
	categories := repository.NewGormCategoryRepository(db)
	offerings := repository.NewGormOfferingRepository(db)
	bookings := repository.NewGormBookingRepository(db)

	tokenService, err := services.NewTokenService(cfg.JWTSecret, cfg.CookieSecure, revocations)
	if err != nil {
		log.Error("token service", slog.Any("error", err))
		os.Exit(1)
	}
	credentialService := services.NewCredentialService(users, services.BcryptHasher{})
	categoryService := services.NewCategoryService(categories, offerings)
	offeringService := services.NewOfferingService(offerings, categories, bookings, services.NewImageStore(cfg.UploadDir))
	bookingService := services.NewBookingService(bookings, offerings, log)

	config.SeedDatabase(context.Background(), cfg, credentialService, categoryService, log)

	router := routes.SetupRouter(routes.Deps{
		Auth:        controllers.NewAuthController(credentialService, tokenService),
		Admin:       controllers.NewAdminController(credentialService, tokenService),
		Categories:  controllers.NewCategoryController(categoryService),
		Offerings:   controllers.NewOfferingController(offeringService),
		Bookings:    controllers.NewBookingController(bookingService),
		Tokens:      tokenService,
		Users:       credentialService,
		Logger:      log,
		UploadDir:   cfg.UploadDir,
		CorsOrigins: cfg.CorsOrigins,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", slog.Any("error", err))
		return
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}
