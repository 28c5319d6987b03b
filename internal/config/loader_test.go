package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Should return defaults without file or environment", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("Should merge partial YAML file over defaults", func(t *testing.T) {
		path := writeFile(t, "wordcloud.yaml", `
analysis:
  max_terms: 25
server:
  port: 9090
  timeout: 5s
  cors:
    allowed_origins:
      - https://cloud.example.com
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 25, cfg.Analysis.MaxTerms)
		assert.Equal(t, 1<<20, cfg.Analysis.MaxInputBytes)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
		assert.Equal(t, []string{"https://cloud.example.com"}, cfg.Server.CORS.AllowedOrigins)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("Should let environment override file", func(t *testing.T) {
		path := writeFile(t, "wordcloud.yaml", "server:\n  port: 9090\n")
		t.Setenv("WORDCLOUD_SERVER_PORT", "7070")
		t.Setenv("WORDCLOUD_LOG_LEVEL", "debug")
		t.Setenv("WORDCLOUD_CACHE_SIZE", "0")
		t.Setenv("WORDCLOUD_SERVER_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
		t.Setenv("WORDCLOUD_UNKNOWN_SETTING", "ignored")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 0, cfg.Cache.Size)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORS.AllowedOrigins)
	})

	t.Run("Should fail on missing config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Should fail on malformed YAML", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "server: [port\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("Should reject out of range values", func(t *testing.T) {
		t.Setenv("WORDCLOUD_ANALYSIS_MAX_TERMS", "0")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MaxTerms")
	})

	t.Run("Should reject unknown log level", func(t *testing.T) {
		t.Setenv("WORDCLOUD_LOG_LEVEL", "verbose")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Level")
	})
}

func TestLoader_EnvFile(t *testing.T) {
	t.Run("Should read dotenv file without overriding set variables", func(t *testing.T) {
		envFile := writeFile(t, ".env", "WORDCLOUD_SERVER_PORT=6060\nWORDCLOUD_ANALYSIS_MAX_TERMS=12\n")
		t.Setenv("WORDCLOUD_ANALYSIS_MAX_TERMS", "40")
		// Registered so t restores the variable that godotenv sets.
		t.Setenv("WORDCLOUD_SERVER_PORT", "")
		require.NoError(t, os.Unsetenv("WORDCLOUD_SERVER_PORT"))

		cfg, err := (&Loader{EnvFile: envFile}).Load()
		require.NoError(t, err)

		assert.Equal(t, 6060, cfg.Server.Port)
		assert.Equal(t, 40, cfg.Analysis.MaxTerms)
	})

	t.Run("Should ignore missing dotenv file", func(t *testing.T) {
		_, err := (&Loader{EnvFile: filepath.Join(t.TempDir(), ".env")}).Load()
		require.NoError(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("Should reject nil config", func(t *testing.T) {
		require.Error(t, Validate(nil))
	})

	t.Run("Should reject credentials with wildcard origin", func(t *testing.T) {
		cfg := Default()
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
		cfg.Server.CORS.AllowCredentials = true
		require.Error(t, Validate(cfg))

		cfg.Server.CORS.AllowCredentials = false
		require.NoError(t, Validate(cfg))
	})

	t.Run("Should reject invalid port", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Port = 70000
		require.Error(t, Validate(cfg))
	})
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "WORDCLOUD_SERVER_PORT", EnvVar("server.port"))
	assert.Equal(t, "WORDCLOUD_ANALYSIS_MAX_INPUT_BYTES", EnvVar("analysis.max_input_bytes"))
	assert.Equal(t, "WORDCLOUD_SERVER_CORS_ALLOW_CREDENTIALS", EnvVar("server.cors.allow_credentials"))
}
