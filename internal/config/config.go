// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	Env     string
	AppPort string

	DBDriver      string
	DatabaseDSN   string
	DBAutoMigrate bool

	CacheDriver   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RabbitMQURL string

	JWTSecret     string
	AdminUsername string
	AdminPassword string

	CORSOrigin string

	UploadDir            string
	ImportMaxUploadMB    int
	ImportAutoCreateTags bool
}

// Production reports whether the service runs in production mode.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads an optional dotenv file and then the environment.
func Load() (*Config, error) {
	envFile := ".env.local"
	if os.Getenv("APP_ENV") == "production" {
		envFile = ".env.production"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=flowershop port=5432 sslmode=disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("CACHE_DRIVER", "redis")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("UPLOAD_DIR", os.TempDir())
	v.SetDefault("IMPORT_MAX_UPLOAD_MB", 10)
	v.SetDefault("IMPORT_AUTO_CREATE_TAGS", false)
}

// FromViper builds a Config from v and validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:                  v.GetString("APP_ENV"),
		AppPort:              v.GetString("APP_PORT"),
		DBDriver:             v.GetString("DB_DRIVER"),
		DatabaseDSN:          v.GetString("DATABASE_DSN"),
		DBAutoMigrate:        v.GetBool("DB_AUTO_MIGRATE"),
		CacheDriver:          v.GetString("CACHE_DRIVER"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		CacheTTL:             v.GetDuration("CACHE_TTL"),
		RabbitMQURL:          v.GetString("RABBITMQ_URL"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		AdminUsername:        v.GetString("ADMIN_USERNAME"),
		AdminPassword:        v.GetString("ADMIN_PASSWORD"),
		CORSOrigin:           v.GetString("CORS_ORIGIN"),
		UploadDir:            v.GetString("UPLOAD_DIR"),
		ImportMaxUploadMB:    v.GetInt("IMPORT_MAX_UPLOAD_MB"),
		ImportAutoCreateTags: v.GetBool("IMPORT_AUTO_CREATE_TAGS"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.CacheDriver {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER %q", c.CacheDriver)
	}
	if c.Production() && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.JWTSecret == "" {
		c.JWTSecret = "dev_jwt_secret"
	}
	if c.ImportMaxUploadMB <= 0 {
		return fmt.Errorf("IMPORT_MAX_UPLOAD_MB must be positive, got %d", c.ImportMaxUploadMB)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	return nil
}
