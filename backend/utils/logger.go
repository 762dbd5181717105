package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"diaconia/backend/config"
)

// InitLogger builds the application logger: JSON in production, colored console output elsewhere.
func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}

	zc := zap.NewDevelopmentConfig()
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zc.Build()
}
