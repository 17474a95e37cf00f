package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "PlanWise", c.AppName)
	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, 43200, c.TokenTTLMin)
	assert.Equal(t, 120, c.RateLimitPerMinute)
	assert.Equal(t, 60, c.DashboardCacheSeconds)
	assert.Equal(t, 6379, c.RedisPort)
	assert.Equal(t, "planwise", c.DBName)
	assert.Empty(t, c.JWTSecret)
}

func TestLoadJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"app": {"Name": "Campus", "AppPort": "9000", "RateLimitPerMinute": 30, "AllowedOrigins": ["https://a.test"]},
		"redis": {"RedisHost": "cache", "RedisPort": 6380},
		"log": {"Level": "debug", "Compress": true},
		"analytics": {"DashboardCacheSeconds": 15}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))
	assert.Equal(t, "Campus", c.AppName)
	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, 30, c.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.test"}, c.AllowedOrigins)
	assert.Equal(t, "cache", c.RedisHost)
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.LogCompress)
	assert.Equal(t, 15, c.DashboardCacheSeconds)
}

func TestLoadJSONConfigMissingAndInvalid(t *testing.T) {
	var c AppConfig
	assert.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &c))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	assert.Error(t, loadJSONConfig(path, &c))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.test, ,https://b.test ")
	t.Setenv("LOG_COMPRESS", "true")

	c := AppConfig{JWTSecret: "from-file"}
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, 5, c.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, c.AllowedOrigins)
	assert.True(t, c.LogCompress)
}

func TestToGormLogLevel(t *testing.T) {
	assert.NotEqual(t, toGormLogLevel("debug"), toGormLogLevel("info"))
	assert.Equal(t, toGormLogLevel("warn"), toGormLogLevel("bogus"))
}
