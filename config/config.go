package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Forms         FormsConfig
	WizardSession WizardSessionConfig
	EventTriggers EventTriggerFunctionsConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL         string
	MaxConns    int32
	MinConns    int32
	WorkOffline bool
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// FormsConfig controls the counselor form sessions
type FormsConfig struct {
	Store           string // "memory" or "redis"
	SessionTTL      time.Duration
	SubmitDelay     time.Duration
	CatalogFile     string // optional YAML override of the embedded catalog
	AvatarColorMode string // "random" or "hash"
}

type WizardSessionConfig struct {
	JWTSecret string
	JWTIssuer string
	TTLHours  int
}

type EventTriggerFunctionsConfig struct {
	ExecutiveCreatedTriggerURL string
	CounselorCreatedTriggerURL string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	AlloyEndpoint     string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://orientame.cl,https://www.orientame.cl")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "onboarding:")
	v.SetDefault("FORM_STORE", "memory")
	v.SetDefault("FORM_SESSION_TTL_MINUTES", 60)
	v.SetDefault("SUBMIT_DELAY_MS", 1000)
	v.SetDefault("AVATAR_COLOR_MODE", "random")
	v.SetDefault("JWT_ISSUER", "onboarding-api")
	v.SetDefault("WIZARD_SESSION_TTL_HOURS", 12)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "alloy:4318") // OTLP over HTTP
	v.SetDefault("O11Y_BE_SERVICE_NAME", "onboarding-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "orientame")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "onboarding-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:         v.GetString("DATABASE_URL"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			MinConns:    v.GetInt32("DB_MIN_CONNS"),
			WorkOffline: v.GetBool("DB_WORK_OFFLINE"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("REDIS_ADDR"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
		},
		Forms: FormsConfig{
			Store:           strings.ToLower(v.GetString("FORM_STORE")),
			SessionTTL:      time.Duration(v.GetInt("FORM_SESSION_TTL_MINUTES")) * time.Minute,
			SubmitDelay:     time.Duration(v.GetInt("SUBMIT_DELAY_MS")) * time.Millisecond,
			CatalogFile:     v.GetString("CATALOG_FILE"),
			AvatarColorMode: strings.ToLower(v.GetString("AVATAR_COLOR_MODE")),
		},
		WizardSession: WizardSessionConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			JWTIssuer: v.GetString("JWT_ISSUER"),
			TTLHours:  v.GetInt("WIZARD_SESSION_TTL_HOURS"),
		},
		EventTriggers: EventTriggerFunctionsConfig{
			ExecutiveCreatedTriggerURL: v.GetString("EXECUTIVE_CREATED_TRIGGER_URL"),
			CounselorCreatedTriggerURL: v.GetString("COUNSELOR_CREATED_TRIGGER_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			AlloyEndpoint:     v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping empty entries
func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if !c.Database.WorkOffline && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when not in offline mode")
	}

	if c.WizardSession.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.WizardSession.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	switch c.Forms.Store {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when FORM_STORE=redis")
		}
	default:
		return fmt.Errorf("FORM_STORE must be one of memory, redis (got %q)", c.Forms.Store)
	}

	switch c.Forms.AvatarColorMode {
	case "random", "hash":
	default:
		return fmt.Errorf("AVATAR_COLOR_MODE must be one of random, hash (got %q)", c.Forms.AvatarColorMode)
	}

	if c.Forms.SubmitDelay < 0 {
		return fmt.Errorf("SUBMIT_DELAY_MS must not be negative")
	}
	if c.Forms.SessionTTL <= 0 {
		return fmt.Errorf("FORM_SESSION_TTL_MINUTES must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
