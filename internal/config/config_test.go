package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no inherited keys.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 45*time.Second, cfg.Server.GenerateTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.StoreTimeout)
	assert.Equal(t, ProviderOpenAI, cfg.Backend.Provider)
	assert.Equal(t, StoreSQLite, cfg.Store.Kind)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)

	content := `{
		"server": {"address": ":9090", "generate_timeout": "10s"},
		"backend": {"provider": "gemini", "api_key": "file-key"},
		"store": {"kind": "memory"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.GenerateTimeout)
	assert.Equal(t, ProviderGemini, cfg.Backend.Provider)
	assert.Equal(t, "file-key", cfg.Backend.APIKey)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app": {"log_level": "debug"}}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.json"))
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"server": {"address": ":9090"}}`), 0644))
	t.Setenv("MOODCHEF_SERVER_ADDRESS", ":7070")
	t.Setenv("MOODCHEF_STORE_KIND", "memory")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
}

func TestLoad_KeyFallbacks(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openai-key", cfg.Backend.APIKey)

	t.Setenv("MOODCHEF_BACKEND_PROVIDER", "gemini")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.Backend.APIKey)

	t.Setenv("MOODCHEF_BACKEND_API_KEY", "explicit")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Backend.APIKey)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MOODCHEF_APP_LOG_LEVEL=warn\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("MOODCHEF_APP_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.App.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("MOODCHEF_BACKEND_PROVIDER", "anthropic")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate_StoreRequirements(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Store.Kind = StorePostgres
	cfg.Store.DatabaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg.Store.DatabaseURL = "postgres://localhost/moodchef"
	assert.NoError(t, cfg.Validate())

	cfg.Store.Kind = StoreRedis
	cfg.Store.RedisAddr = ""
	assert.Error(t, cfg.Validate())
}
