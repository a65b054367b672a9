package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"anoa.com/hennahub/internal/bootstrap"
	"anoa.com/hennahub/internal/config"
	"anoa.com/hennahub/internal/logger"
	"anoa.com/hennahub/internal/server"
	"anoa.com/hennahub/pkg/database"
	"anoa.com/hennahub/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.InitFromConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := bootstrap.SeedAdminUser(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting and live notifications disabled", "error", err)
		redisClient = nil
	}

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryUploadFolder)
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	srv := server.NewServer(cfg, server.Dependencies{
		DB:           db,
		Redis:        redisClient,
		Search:       server.NewMeiliClient(cfg),
		ImageStorage: imageStorage,
	})

	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
