package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config groups the application configuration, read from environment
// variables (optionally backed by a .env file loaded in main).
type Config struct {
	App  AppConfig
	DB   DBConfig
	JWT  JWTConfig
	HTTP HTTPConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env      string // development, production
	Name     string
	LogLevel string
}

// DBConfig points at the single local SQLite database file.
type DBConfig struct {
	Path string
}

// JWTConfig holds token signing settings. AccessTTLMinutes bounds access
// tokens; RefreshTTLDays bounds refresh tokens (30 days unless revoked
// earlier by rotation or logout).
type JWTConfig struct {
	Secret           string
	AccessTTLMinutes int
	RefreshTTLDays   int
}

// HTTPConfig holds the listen address settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "pos-backoffice")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PATH", "database.sqlite")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL_MINUTES", 15)
	v.SetDefault("REFRESH_TOKEN_TTL_DAYS", 30)
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Path: v.GetString("DB_PATH"),
		},
		JWT: JWTConfig{
			Secret:           v.GetString("JWT_SECRET"),
			AccessTTLMinutes: v.GetInt("ACCESS_TOKEN_TTL_MINUTES"),
			RefreshTTLDays:   v.GetInt("REFRESH_TOKEN_TTL_DAYS"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
	}

	if cfg.JWT.Secret == "" && cfg.App.Env == "production" {
		return nil, fmt.Errorf("config: JWT_SECRET is required in production")
	}

	return cfg, nil
}
