package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration read from an optional .env file and the environment.
type Config struct {
	Env              string
	LogLevel         string
	HTTPAddr         string
	DB               DBConfig
	REST             RESTConfig
	Cache            CacheConfig
	BackendTimeout   time.Duration
	ShutdownTimeout  time.Duration
	SeedOnStart      bool
	CORSAllowOrigins []string
}

// DBConfig describes the pooled relational connection. URL wins over the discrete fields.
type DBConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ConnectionString returns the pool descriptor, or "" when none is configured.
func (c DBConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Host == "" {
		return ""
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// RESTConfig describes the hosted REST proxy in front of the same database.
type RESTConfig struct {
	URL string
	Key string
}

var placeholders = map[string]struct{}{
	"your_supabase_project_url":      {},
	"your_supabase_service_role_key": {},
	"placeholder_url":                {},
	"placeholder_key":                {},
	"placeholder_service_key":        {},
}

// Configured reports whether both endpoint and key are present and not template placeholders.
func (c RESTConfig) Configured() bool {
	if c.URL == "" || c.Key == "" {
		return false
	}
	if _, ok := placeholders[c.URL]; ok {
		return false
	}
	if _, ok := placeholders[c.Key]; ok {
		return false
	}
	return strings.HasPrefix(c.URL, "http://") || strings.HasPrefix(c.URL, "https://")
}

// CacheConfig configures the client cache. Path ":memory:" keeps it in process memory.
type CacheConfig struct {
	Path     string
	MaxBytes int
}

// Presence reports which backend variables are set, without their values.
func (c Config) Presence() map[string]bool {
	return map[string]bool{
		"POSTGRES_URL":              c.DB.URL != "",
		"POSTGRES_HOST":             c.DB.Host != "",
		"SUPABASE_URL":              c.REST.URL != "",
		"SUPABASE_SERVICE_ROLE_KEY": c.REST.Key != "",
		"REST_CONFIGURED":           c.REST.Configured(),
	}
}

// Load reads configuration. Environment variables take precedence over the .env file.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // optional

	v.AutomaticEnv()
	setDefaults(v)

	dbURL := v.GetString("POSTGRES_URL")
	if dbURL == "" {
		dbURL = v.GetString("DATABASE_URL")
	}

	timeout := v.GetInt("BACKEND_TIMEOUT_SECONDS")
	if timeout <= 0 {
		return Config{}, fmt.Errorf("BACKEND_TIMEOUT_SECONDS must be positive, got %d", timeout)
	}

	return Config{
		Env:      v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		HTTPAddr: v.GetString("HTTP_ADDR"),
		DB: DBConfig{
			URL:      dbURL,
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetInt("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			Name:     v.GetString("POSTGRES_DATABASE"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
		REST: RESTConfig{
			URL: v.GetString("SUPABASE_URL"),
			Key: v.GetString("SUPABASE_SERVICE_ROLE_KEY"),
		},
		Cache: CacheConfig{
			Path:     v.GetString("CACHE_PATH"),
			MaxBytes: v.GetInt("CACHE_MAX_BYTES"),
		},
		BackendTimeout:   time.Duration(timeout) * time.Second,
		ShutdownTimeout:  time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		SeedOnStart:      v.GetBool("SEED_ON_START"),
		CORSAllowOrigins: splitList(v.GetString("CORS_ALLOW_ORIGINS")),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_DATABASE", "postgres")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("CACHE_PATH", "data/cache.db")
	v.SetDefault("CACHE_MAX_BYTES", 5<<20)
	v.SetDefault("BACKEND_TIMEOUT_SECONDS", 5)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
