// Command seedadmin creates the first admin account from ADMIN_NAME, ADMIN_EMAIL and
// ADMIN_PASSWORD, or promotes the account already registered under ADMIN_EMAIL.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"diaconia/backend/config"
	"diaconia/backend/services"
	"diaconia/backend/store"
	"diaconia/backend/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := utils.InitLogger(cfg)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := store.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("Error initializing database", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := services.NewUserService(store.NewUserStore(db), logger)
	admin, created, err := users.EnsureAdmin(ctx, services.AdminSeed{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		logger.Fatal("Error seeding admin", zap.Error(err))
	}

	if created {
		logger.Info("admin created, change the password after the first login", zap.String("email", admin.Email))
		return
	}
	logger.Info("admin already present", zap.String("email", admin.Email))
}
