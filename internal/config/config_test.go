package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "local")
	t.Setenv("OPERATOR_PASSWORD", "Victoria10")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreLocal, cfg.StoreBackend)
	assert.Equal(t, LocalFile, cfg.LocalBackend)
	assert.Equal(t, "nails", cfg.LocalNamespace)
	assert.Equal(t, "victoria", cfg.Operator.Username)
	assert.Equal(t, "Victoria", cfg.Operator.Name)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"STORE_BACKEND=postgres\nOPERATOR_PASSWORD=pw\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n"), 0o600))
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("OPERATOR_PASSWORD", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	os.Unsetenv("STORE_BACKEND")
	os.Unsetenv("OPERATOR_PASSWORD")
	os.Unsetenv("CORS_ALLOWED_ORIGINS")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			StoreBackend: StoreLocal,
			LocalBackend: LocalMemory,
			Operator:     OperatorConfig{Username: "victoria", Password: "pw"},
			Timezone:     "UTC",
		}
	}
	require.NoError(t, base().Validate())

	c := base()
	c.StoreBackend = StoreSupabase
	assert.ErrorIs(t, c.Validate(), ErrConfig)

	c = base()
	c.StoreBackend = "mongo"
	assert.ErrorIs(t, c.Validate(), ErrConfig)

	c = base()
	c.Operator.Password = ""
	assert.ErrorIs(t, c.Validate(), ErrConfig)

	c = base()
	c.Timezone = "Mars/Olympus"
	assert.ErrorIs(t, c.Validate(), ErrConfig)
}
