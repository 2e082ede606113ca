package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variable names before they are
// mapped onto Config, e.g. GUESTBOOK_DB_HOST -> db_host.
const EnvPrefix = "GUESTBOOK_"

type Config struct {
	Host string `koanf:"host" validate:"required"`
	Port string `koanf:"port" validate:"required,numeric"`

	// DatabaseURL, when set, is used as the connection string as-is and the
	// DB* parts below are ignored.
	DatabaseURL string `koanf:"database_url"`

	DBHost    string `koanf:"db_host" validate:"required_without=DatabaseURL"`
	DBPort    string `koanf:"db_port" validate:"required_without=DatabaseURL"`
	DBName    string `koanf:"db_name" validate:"required_without=DatabaseURL"`
	DBUser    string `koanf:"db_user" validate:"required_without=DatabaseURL"`
	DBPass    string `koanf:"db_pass"`
	DBSSLMode string `koanf:"db_sslmode"`

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int `koanf:"db_max_open_conns" validate:"gt=0"`
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int `koanf:"db_max_idle_conns" validate:"gte=0"`

	// CORSOrigin is the single browser origin allowed to call the API.
	CORSOrigin string `koanf:"cors_origin" validate:"required,url"`

	// LogLevel is any zerolog level name (debug, info, warn, ...).
	LogLevel string `koanf:"log_level" validate:"required"`
	// LogFormat is "text" (default) or "json".
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gt=0"`
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Host: "0.0.0.0",
		Port: "8080",

		DBHost:    "localhost",
		DBPort:    "5432",
		DBName:    "guestbook",
		DBUser:    "guestbook",
		DBPass:    "guestbook",
		DBSSLMode: "disable",

		DBMaxOpenConns: 25,
		DBMaxIdleConns: 5,

		CORSOrigin: "http://localhost:5173",

		LogLevel:  "info",
		LogFormat: "text",

		MaxBodyBytes: 1 << 20,
	}
}

// Load reads GUESTBOOK_* variables (a .env file in the working directory is
// loaded first if present) over the defaults and validates the result.
func Load() (Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// DSN returns DatabaseURL when set, otherwise a lib/pq keyword DSN built from the DB* fields.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	sslmode := c.DBSSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPass, sslmode,
	)
}
