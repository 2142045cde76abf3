package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config carries settings for both the terminal client and the local stub
// backend. All values come from .env / environment variables.
type Config struct {
	Env string

	API     APIConfig
	Session SessionConfig
	Log     LogConfig
	Stub    StubConfig
}

// APIConfig points the client at the backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig locates the persisted credential file.
type SessionConfig struct {
	File string
}

type LogConfig struct {
	Level  string
	Format string
}

// StubConfig configures the local development backend.
type StubConfig struct {
	Port              int
	DBPath            string
	JWTSecret         string
	Expiration        time.Duration
	RefreshExpiration time.Duration
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
		// With an explicit config file viper surfaces a plain *fs.PathError
		// when .env is missing; either way defaults and env vars still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("HTTP_TIMEOUT"), 10*time.Second),
	}

	cfg.Session = SessionConfig{
		File: v.GetString("SESSION_FILE"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Stub = StubConfig{
		Port:              v.GetInt("PORT"),
		DBPath:            v.GetString("DB_PATH"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:8000")
	v.SetDefault("HTTP_TIMEOUT", "10s")

	v.SetDefault("SESSION_FILE", ".eduterm/session.json")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("PORT", 8000)
	v.SetDefault("DB_PATH", "stub.db")
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")
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
