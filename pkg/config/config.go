package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream  UpstreamConfig
	Redis     RedisConfig
	Session   SessionConfig
	Reconcile ReconcileConfig
	Exports   ExportsConfig
	CORS      CORSConfig
	Log       LogConfig
}

// UpstreamConfig points at the platform REST backend.
type UpstreamConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	UserAgent      string
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SessionConfig tunes upstream token handling.
type SessionConfig struct {
	RefreshLeeway time.Duration
	StoreKey      string
}

// ReconcileConfig is the fixed-delay schedule applied after mutations.
type ReconcileConfig struct {
	Delays          []time.Duration
	FreshnessWindow time.Duration
}

// ExportsConfig gates report export rendering.
type ExportsConfig struct {
	Enabled   bool
	MaxRows   int
	PDFTitle  string
	CSVHeader bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		BaseURL:        strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		RequestTimeout: parseDuration(v.GetString("UPSTREAM_REQUEST_TIMEOUT"), 15*time.Second),
		UserAgent:      v.GetString("UPSTREAM_USER_AGENT"),
	}

	cfg.Redis = RedisConfig{
		Host:         v.GetString("REDIS_HOST"),
		Port:         v.GetInt("REDIS_PORT"),
		Password:     v.GetString("REDIS_PASSWORD"),
		DB:           v.GetInt("REDIS_DB"),
		PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
		MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
	}

	cfg.Session = SessionConfig{
		RefreshLeeway: parseDuration(v.GetString("SESSION_REFRESH_LEEWAY"), 30*time.Second),
		StoreKey:      v.GetString("SESSION_STORE_KEY"),
	}

	cfg.Reconcile = ReconcileConfig{
		Delays:          parseDelays(v.GetString("RECONCILE_DELAYS"), defaultReconcileDelays),
		FreshnessWindow: parseDuration(v.GetString("RECONCILE_FRESHNESS_WINDOW"), 30*time.Second),
	}

	cfg.Exports = ExportsConfig{
		Enabled:   v.GetBool("ENABLE_EXPORTS"),
		MaxRows:   v.GetInt("EXPORTS_MAX_ROWS"),
		PDFTitle:  v.GetString("EXPORTS_PDF_TITLE"),
		CSVHeader: v.GetBool("EXPORTS_CSV_HEADER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

var defaultReconcileDelays = []time.Duration{300 * time.Millisecond, time.Second, 2 * time.Second}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:8000/api")
	v.SetDefault("UPSTREAM_REQUEST_TIMEOUT", "15s")
	v.SetDefault("UPSTREAM_USER_AGENT", "noor-academy-sync-gateway")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)

	v.SetDefault("SESSION_REFRESH_LEEWAY", "30s")
	v.SetDefault("SESSION_STORE_KEY", "session:upstream")

	v.SetDefault("RECONCILE_DELAYS", "300ms,1s,2s")
	v.SetDefault("RECONCILE_FRESHNESS_WINDOW", "30s")

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORTS_MAX_ROWS", 5000)
	v.SetDefault("EXPORTS_PDF_TITLE", "Noor Academy Reports")
	v.SetDefault("EXPORTS_CSV_HEADER", true)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func parseDelays(raw string, fallback []time.Duration) []time.Duration {
	parts := splitAndTrim(raw)
	if len(parts) == 0 {
		return fallback
	}
	delays := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		d, err := time.ParseDuration(part)
		if err != nil || d < 0 {
			return fallback
		}
		delays = append(delays, d)
	}
	return delays
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
