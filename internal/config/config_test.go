package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "devsecret")
}

func TestNewConfig_DefaultValues(t *testing.T) {
	setRequired(t)

	cfg, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Empty(t, cfg.HTTP.StaticDir)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.True(t, cfg.GRPC.Enabled)
	assert.Equal(t, "50051", cfg.GRPC.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "chat_db", cfg.Mongo.Database)
	assert.False(t, cfg.Mongo.Transactions)
	assert.Equal(t, "devsecret", cfg.JWT.Secret)
	assert.Equal(t, 48*time.Hour, cfg.JWT.TTL)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
	}{
		{
			name: "http config override",
			envVars: map[string]string{
				"HTTP_PORT":            "3000",
				"HTTP_STATIC_DIR":      "./message-app",
				"HTTP_ALLOWED_ORIGINS": "http://localhost:3000,http://127.0.0.1:5500",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "3000", cfg.HTTP.Port)
				assert.Equal(t, "./message-app", cfg.HTTP.StaticDir)
				assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:5500"}, cfg.HTTP.AllowedOrigins)
			},
		},
		{
			name: "mongo config override",
			envVars: map[string]string{
				"MONGODB_DATABASE":     "messages",
				"MONGODB_TRANSACTIONS": "true",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "messages", cfg.Mongo.Database)
				assert.True(t, cfg.Mongo.Transactions)
			},
		},
		{
			name: "jwt key rotation",
			envVars: map[string]string{
				"JWT_KEYS":       "k1:secret-one,k2:secret-two",
				"JWT_ACTIVE_KID": "k2",
				"JWT_TTL":        "1h",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, map[string]string{"k1": "secret-one", "k2": "secret-two"}, cfg.JWT.Keys)
				assert.Equal(t, "k2", cfg.JWT.ActiveKID)
				assert.Equal(t, time.Hour, cfg.JWT.TTL)
			},
		},
		{
			name: "log config override",
			envVars: map[string]string{
				"LOG_LEVEL":       "debug",
				"LOG_DEVELOPMENT": "true",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.True(t, cfg.Log.Development)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
			require.NoError(t, err)
			tt.expected(cfg)
		})
	}
}

func TestNewConfig_MissingMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	os.Unsetenv("MONGODB_URI")
	t.Setenv("JWT_SECRET", "devsecret")

	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestNewConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errText string
	}{
		{
			name:    "no jwt secret",
			envVars: map[string]string{"JWT_SECRET": ""},
			errText: "either JWT_SECRET or JWT_KEYS",
		},
		{
			name:    "keys without active kid",
			envVars: map[string]string{"JWT_SECRET": "", "JWT_KEYS": "k1:one"},
			errText: "JWT_ACTIVE_KID must be set",
		},
		{
			name:    "unknown active kid",
			envVars: map[string]string{"JWT_KEYS": "k1:one", "JWT_ACTIVE_KID": "k9"},
			errText: "not found in JWT_KEYS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestNewConfig_LoadsDotenv(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("MONGODB_URI", "")
	os.Unsetenv("MONGODB_URI")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MONGODB_URI=mongodb://dotenv:27017\nJWT_SECRET=from-file\n"), 0o600))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://dotenv:27017", cfg.Mongo.URI)
	// variables already present in the environment win
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}
