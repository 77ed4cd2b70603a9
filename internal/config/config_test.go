package config_test

import (
	"testing"
	"time"

	"flowershop/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "redis", cfg.CacheDriver)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.ImportMaxUploadMB)
	assert.False(t, cfg.ImportAutoCreateTags)
	assert.True(t, cfg.DBAutoMigrate)
	assert.NotEmpty(t, cfg.JWTSecret, "development falls back to a local secret")
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]interface{}{
		"DB_DRIVER":               "sqlite",
		"CACHE_DRIVER":            "memory",
		"CACHE_TTL":               "30s",
		"IMPORT_AUTO_CREATE_TAGS": "true",
		"JWT_SECRET":              "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "memory", cfg.CacheDriver)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.ImportAutoCreateTags)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := map[string]map[string]interface{}{
		"unknown db driver":      {"DB_DRIVER": "mysql"},
		"unknown cache driver":   {"CACHE_DRIVER": "memcached"},
		"production w/o secret":  {"APP_ENV": "production"},
		"non-positive body size": {"IMPORT_MAX_UPLOAD_MB": 0},
	}
	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromViper(newViper(overrides))
			assert.Error(t, err)
		})
	}
}
