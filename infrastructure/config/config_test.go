package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SanjayNarukulla/swift-backend/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "ENVIRONMENT", "MONGO_URI", "DATABASE_URI",
		"DB_NAME", "SEED_API_URL", "ENABLE_METRICS", "ENABLE_TRACING",
		"EVENT_BUS_NAME", "AWS_REGION",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("PORT", "8081")
	t.Setenv("ENABLE_METRICS", "true")
	t.Setenv("EVENT_BUS_NAME", "swift-bus")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.DatabaseURI)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, ":8081", cfg.ServerAddress())
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, "swift-backend-assign", cfg.DatabaseName)
	assert.Equal(t, "swift-bus", cfg.EventBusName)
}

func TestLoadConfig_DefaultPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "memory://")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "https://jsonplaceholder.typicode.com", cfg.SeedBaseURL)
}

func TestLoadConfig_MissingConnectionString(t *testing.T) {
	clearEnv(t)

	_, err := config.LoadConfig()
	assert.ErrorIs(t, err, config.ErrMissingConnectionString)
}

func TestLoadConfig_FileThenEnvironment(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: 4000\ndatabase_uri: memory://\ndatabase_name: from-file\nenable_cors: true\n",
	), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DB_NAME", "from-env")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "memory://", cfg.DatabaseURI)
	assert.Equal(t, "from-env", cfg.DatabaseName)
	assert.True(t, cfg.EnableCORS)
}

func TestLoadConfig_UnreadableFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *config.Config) { c.DatabaseURI = "memory://" },
			wantErr: false,
		},
		{
			name:    "missing connection string",
			mutate:  func(c *config.Config) {},
			wantErr: true,
		},
		{
			name: "port out of range",
			mutate: func(c *config.Config) {
				c.DatabaseURI = "memory://"
				c.Port = 70000
			},
			wantErr: true,
		},
		{
			name: "relative seed url",
			mutate: func(c *config.Config) {
				c.DatabaseURI = "memory://"
				c.SeedBaseURL = "/users"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
