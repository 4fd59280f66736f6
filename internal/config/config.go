package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds every environment-driven setting the service reads at boot.
type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret   string `mapstructure:"JWT_SECRET"`
	AuthJWKSURL string `mapstructure:"AUTH_JWKS_URL"`
	TokenTTL    int    `mapstructure:"TOKEN_TTL_SECONDS"`
	RefreshTTL  int    `mapstructure:"REFRESH_TTL_SECONDS"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`

	CopilotURL     string `mapstructure:"COPILOT_URL"`
	CopilotTimeout int    `mapstructure:"COPILOT_TIMEOUT_SECONDS"`

	// TenantIsolation exists only so local tooling can be pointed at a scratch
	// database; the server refuses to disable it outside development.
	TenantIsolation bool `mapstructure:"TENANT_ISOLATION"`

	PageDefault int `mapstructure:"PAGE_DEFAULT"`
	PageMax     int `mapstructure:"PAGE_MAX"`
}

// Load reads configuration from the environment (plus an optional .env file)
// and validates the settings the process cannot run without.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("TOKEN_TTL_SECONDS", 900)
	v.SetDefault("REFRESH_TTL_SECONDS", 604800)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "care-documents")
	v.SetDefault("COPILOT_TIMEOUT_SECONDS", 5)
	v.SetDefault("TENANT_ISOLATION", true)
	v.SetDefault("PAGE_DEFAULT", 20)
	v.SetDefault("PAGE_MAX", 100)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL",
		"JWT_SECRET", "AUTH_JWKS_URL", "TOKEN_TTL_SECONDS", "REFRESH_TTL_SECONDS",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_USE_SSL", "MINIO_BUCKET",
		"COPILOT_URL", "COPILOT_TIMEOUT_SECONDS",
		"TENANT_ISOLATION", "PAGE_DEFAULT", "PAGE_MAX",
	} {
		v.BindEnv(key)
	}

	// Try reading .env, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" && cfg.AuthJWKSURL == "" {
		return nil, fmt.Errorf("either JWT_SECRET or AUTH_JWKS_URL must be set")
	}
	if cfg.PageMax <= 0 || cfg.PageDefault <= 0 || cfg.PageDefault > cfg.PageMax {
		return nil, fmt.Errorf("invalid pagination bounds: default=%d max=%d", cfg.PageDefault, cfg.PageMax)
	}
	if !cfg.TenantIsolation && !cfg.IsDev() {
		return nil, fmt.Errorf("TENANT_ISOLATION cannot be disabled outside development")
	}
	if !cfg.TenantIsolation {
		log.Println("WARNING: tenant isolation disabled; acceptable for local tooling only")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}
