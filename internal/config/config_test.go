package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadRequiresSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_PATH", "missing.yaml")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSecret))
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_PATH", "missing.yaml")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, 360000*time.Second, cfg.TokenTTL())
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Zero(t, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
port: 8080
store:
  driver: postgres
jwt:
  secret: from-file
  ttl: 60
rate_limit:
  rps: 10
  burst: 20
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_RPS", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, time.Minute, cfg.TokenTTL())
	assert.Equal(t, 0.5, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=dotenv\nSTORE_DRIVER=memory\n"), 0o600))
	t.Setenv("CONFIG_PATH", "missing.yaml")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "")
	// godotenv never overrides variables that are already present.
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("STORE_DRIVER")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dotenv", cfg.JWT.Secret)
	assert.Equal(t, "memory", cfg.Store.Driver)
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_PATH", "missing.yaml")
	t.Setenv("JWT_SECRET", "x")

	t.Setenv("PORT", "abc")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "cassandra")
	_, err = Load()
	assert.Error(t, err)
}
