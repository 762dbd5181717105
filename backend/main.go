package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"diaconia/backend/config"
	"diaconia/backend/middleware"
	"diaconia/backend/routes"
	"diaconia/backend/services"
	"diaconia/backend/store"
	"diaconia/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(cfg)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize database
	db, err := store.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("Error initializing database", zap.Error(err))
	}

	if cfg.AdminEmail != "" {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
		users := services.NewUserService(store.NewUserStore(db), logger)
		_, _, err := users.EnsureAdmin(seedCtx, services.AdminSeed{
			Name:     cfg.AdminName,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		})
		cancelSeed()
		if err != nil {
			logger.Fatal("Error ensuring admin account", zap.Error(err))
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "diaconia",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, logger)

	go func() {
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.ServerPort), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped")
}
