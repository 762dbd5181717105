// Package store is the persistence gateway: gorm-backed find/create/save/delete for the
// application's aggregates.
package store

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"diaconia/backend/config"
	"diaconia/backend/errs"
	"diaconia/backend/models"
)

// InitDB opens the configured database and migrates the schema.
func InitDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(models.All()...), "migrate schema")
}

// translate maps gorm errors onto the errs taxonomy and wraps everything else.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrapf(errs.ErrConflict, "%s already exists", resource)
	default:
		return errors.Wrapf(err, "query %s", resource)
	}
}
