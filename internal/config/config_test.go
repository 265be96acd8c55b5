package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/cache.db", cfg.Cache.Path)
	assert.Equal(t, 5<<20, cfg.Cache.MaxBytes)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/nav")
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "2")
	t.Setenv("CACHE_PATH", ":memory:")
	t.Setenv("SEED_ON_START", "false")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/nav", cfg.DB.ConnectionString())
	assert.Equal(t, 2*time.Second, cfg.BackendTimeout)
	assert.Equal(t, ":memory:", cfg.Cache.Path)
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestConnectionStringFromParts(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "nav", Password: "p@ss", Name: "fastnav", SSLMode: "require"}
	assert.Equal(t, "postgres://nav:p%40ss@db:5432/fastnav?sslmode=require", c.ConnectionString())
	assert.Empty(t, DBConfig{}.ConnectionString())
}

func TestRESTConfigured(t *testing.T) {
	assert.True(t, RESTConfig{URL: "https://x.supabase.co", Key: "k"}.Configured())
	assert.False(t, RESTConfig{URL: "your_supabase_project_url", Key: "k"}.Configured())
	assert.False(t, RESTConfig{URL: "https://x.supabase.co", Key: "your_supabase_service_role_key"}.Configured())
	assert.False(t, RESTConfig{URL: "https://x.supabase.co"}.Configured())
}

func TestPresenceHidesValues(t *testing.T) {
	p := Config{REST: RESTConfig{URL: "https://x.supabase.co", Key: "secret"}}.Presence()
	assert.Equal(t, map[string]bool{
		"POSTGRES_URL":              false,
		"POSTGRES_HOST":             false,
		"SUPABASE_URL":              true,
		"SUPABASE_SERVICE_ROLE_KEY": true,
		"REST_CONFIGURED":           true,
	}, p)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
