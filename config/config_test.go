package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"ENV", "CI", "ENV_FILE", "SECRETS_DIR",
	"SERVER_PORT", "SERVER_HOST",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
	"SQLITE_PATH", "MIGRATIONS_DIR",
	"REDIS_URL", "REDIS_PASSWORD", "RATE_LIMIT_PER_MINUTE",
	"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "S3_BUCKET_NAME", "AWS_REGION",
}

// clearEnv unsets every configuration key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "handlog", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.S3BucketName)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/handlog.db")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/handlog.db", cfg.SQLitePath)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 10, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigPrefersSecrets(t *testing.T) {
	clearEnv(t)
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("DB_PASSWORD", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "db_password"), []byte("from-secret\n"), 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.DBPassword)
	assert.Contains(t, cfg.PostgresDSN(), "password=from-secret")
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_NAME=from_file\nSERVER_PORT=7000\n"), 0600))
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("SERVER_PORT", "7100")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.DBName)
	// variables already set win over the file
	assert.Equal(t, "7100", cfg.ServerPort)
}

func TestLoadConfigInvalidRateLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfigCollectsErrors(t *testing.T) {
	cfg := &Config{
		Environment:        Production,
		ServerPort:         "http",
		DBDriver:           DriverPostgres,
		DBHost:             "db",
		DBUser:             "postgres",
		DBName:             "handlog",
		RateLimitPerMinute: -1,
		LogLevel:           "verbose",
		S3BucketName:       "snapshots",
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{
		"SERVER_PORT", "DB_PASSWORD", "RATE_LIMIT_PER_MINUTE", "LOG_LEVEL", "AWS_REGION",
	}, fields)
}

func TestValidateConfigUnknownDriver(t *testing.T) {
	cfg := &Config{ServerPort: "8080", DBDriver: "mysql", LogLevel: "info"}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestGetEnvironment(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "Production")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
