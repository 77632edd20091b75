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
	Env  string
	Port int

	Upstream  UpstreamConfig
	Console   ConsoleConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Workspace WorkspaceConfig
	Export    ExportConfig
}

// ExportConfig governs the staging area for rendered downloads.
type ExportConfig struct {
	Dir           string
	SigningSecret string
	TTL           time.Duration
}

// UpstreamConfig points at the school-management platform API.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ConsoleConfig tunes the per-screen data-sync behaviour.
type ConsoleConfig struct {
	DefaultPageSize  int
	DebounceInterval time.Duration
	LookupCacheTTL   time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// WorkspaceConfig governs per-login workspace retention.
type WorkspaceConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
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

	cfg.Upstream = UpstreamConfig{
		BaseURL: strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 15*time.Second),
	}

	pageSize := v.GetInt("CONSOLE_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 20
	}
	debounce := parseDuration(v.GetString("CONSOLE_SEARCH_DEBOUNCE"), 350*time.Millisecond)
	if debounce < 300*time.Millisecond {
		debounce = 300 * time.Millisecond
	}
	cfg.Console = ConsoleConfig{
		DefaultPageSize:  pageSize,
		DebounceInterval: debounce,
		LookupCacheTTL:   parseDuration(v.GetString("CONSOLE_LOOKUP_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Workspace = WorkspaceConfig{
		IdleTTL:       parseDuration(v.GetString("WORKSPACE_IDLE_TTL"), 45*time.Minute),
		SweepInterval: parseDuration(v.GetString("WORKSPACE_SWEEP_INTERVAL"), 5*time.Minute),
	}

	cfg.Export = ExportConfig{
		Dir:           v.GetString("EXPORT_DIR"),
		SigningSecret: v.GetString("EXPORT_SIGNING_SECRET"),
		TTL:           parseDuration(v.GetString("EXPORT_TTL"), time.Hour),
	}

	if cfg.Upstream.BaseURL == "" {
		return nil, errors.New("UPSTREAM_BASE_URL is required")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8090)
	v.SetDefault("UPSTREAM_BASE_URL", "http://127.0.0.1:8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_SIGNING_SECRET", "dev-only-export-secret")
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

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
