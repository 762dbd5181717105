package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set outside of local environments")

type Config struct {
	Env           string        `mapstructure:"app_env"`
	ServerPort    string        `mapstructure:"server_port"`
	DBDriver      string        `mapstructure:"db_driver"` // postgres, sqlite
	DBHost        string        `mapstructure:"db_host"`
	DBPort        string        `mapstructure:"db_port"`
	DBUser        string        `mapstructure:"db_user"`
	DBPassword    string        `mapstructure:"db_password"`
	DBName        string        `mapstructure:"db_name"`
	DBSSLMode     string        `mapstructure:"db_sslmode"`
	SQLitePath    string        `mapstructure:"sqlite_path"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
	FrontendURL   string        `mapstructure:"frontend_url"`
	CORSOrigins   string        `mapstructure:"cors_origins"`

	// Admin account ensured at startup when AdminEmail is set, and by cmd/seedadmin.
	AdminName     string `mapstructure:"admin_name"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PostgresDSN builds the connection string for gorm's postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("app_env", "local")
	v.SetDefault("server_port", "8080")
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "diaconia")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("sqlite_path", "diaconia.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiration", "168h")
	v.SetDefault("frontend_url", "http://localhost:3000")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("admin_name", "Administrador")
	v.SetDefault("admin_email", "")
	v.SetDefault("admin_password", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "local" {
			return nil, ErrMissingJWTSecret
		}
		cfg.JWTSecret = "secret"
	}

	return &cfg, nil
}
