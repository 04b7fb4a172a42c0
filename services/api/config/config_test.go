package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "PORT", "API_PORT", "API_BEARER_TOKEN",
		"CORS_ALLOW_ORIGINS", "GEMINI_API_KEY", "GEMINI_MODEL", "CHAT_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/argo")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/argo", cfg.DatabaseURL)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.ListenAddr())
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 30*time.Second, cfg.ChatTimeout)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Empty(t, cfg.BearerToken)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_CustomEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("API_PORT", "8081")
	t.Setenv("API_BEARER_TOKEN", "secret")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:5173, https://floatchat.example ,")
	t.Setenv("GEMINI_API_KEY", " key ")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("CHAT_TIMEOUT", "45s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "secret", cfg.BearerToken)
	assert.Equal(t, []string{"http://localhost:5173", "https://floatchat.example"}, cfg.AllowOrigins)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Equal(t, 45*time.Second, cfg.ChatTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_PortTakesPrecedence(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("API_PORT", "8081")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
}

func TestLoad_DatabaseFromParts(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "floats")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres://db:5432/floats?sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad port", "PORT", "abc"},
		{"negative api port", "API_PORT", "-1"},
		{"bad timeout", "CHAT_TIMEOUT", "soon"},
		{"zero timeout", "CHAT_TIMEOUT", "0s"},
		{"no database", "DATABASE_URL", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()

			assert.Error(t, err)
		})
	}
}
