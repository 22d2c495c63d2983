// Package config reads the service settings from the environment, optionally seeded
// from a .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"agenda_backend/pkg/utils"

	"github.com/joho/godotenv"
)

const (
	StoreSupabase = "supabase"
	StorePostgres = "postgres"
	StoreLocal    = "local"

	LocalFile   = "file"
	LocalRedis  = "redis"
	LocalMemory = "memory"
)

var ErrConfig = errors.New("invalid configuration")

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SchemaPath string
}

// RedisConfig holds the redis local backend settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// OperatorConfig is the single identity allowed to log in.
type OperatorConfig struct {
	Name         string
	Username     string
	Password     string
	PasswordHash string
}

type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	AllowedOrigins []string

	StoreBackend    string
	SupabaseURL     string
	SupabaseAnonKey string
	DB              DBConfig

	LocalBackend   string
	LocalDir       string
	LocalNamespace string
	Redis          RedisConfig

	Operator         OperatorConfig
	SessionSecret    string
	AttendancePolicy string
	Timezone         string
}

// Load reads envFile (missing files are fine) and then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			utils.LogDebug("No env file loaded, using process environment", map[string]interface{}{"file": envFile})
		}
	}

	cfg := &Config{
		Port:           utils.Getenv("PORT", "8080"),
		Environment:    utils.Getenv("ENVIRONMENT", "development"),
		LogLevel:       utils.Getenv("LOG_LEVEL", "info"),
		AllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		StoreBackend:    strings.ToLower(utils.Getenv("STORE_BACKEND", StoreSupabase)),
		SupabaseURL:     utils.Getenv("SUPABASE_URL", ""),
		SupabaseAnonKey: utils.Getenv("SUPABASE_ANON_KEY", ""),
		DB: DBConfig{
			Host:       utils.Getenv("DB_HOST", "localhost"),
			Port:       utils.Getenv("DB_PORT", "5432"),
			User:       utils.Getenv("DB_USER", "agenda"),
			Password:   utils.Getenv("DB_PASSWORD", "agenda"),
			Name:       utils.Getenv("DB_NAME", "agenda"),
			SSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath: utils.Getenv("DB_SCHEMA_PATH", ""),
		},

		LocalBackend:   strings.ToLower(utils.Getenv("LOCAL_BACKEND", LocalFile)),
		LocalDir:       utils.Getenv("LOCAL_DIR", "./data"),
		LocalNamespace: utils.Getenv("LOCAL_NAMESPACE", "nails"),
		Redis: RedisConfig{
			Addr:     utils.Getenv("REDIS_ADDR", "localhost:6379"),
			Password: utils.Getenv("REDIS_PASSWORD", ""),
			DB:       utils.GetenvInt("REDIS_DB", 0),
		},

		Operator: OperatorConfig{
			Name:         utils.Getenv("OPERATOR_NAME", "Victoria"),
			Username:     utils.Getenv("OPERATOR_USERNAME", "victoria"),
			Password:     utils.Getenv("OPERATOR_PASSWORD", ""),
			PasswordHash: utils.Getenv("OPERATOR_PASSWORD_HASH", ""),
		},
		SessionSecret:    utils.Getenv("SESSION_SECRET", ""),
		AttendancePolicy: utils.Getenv("ATTENDANCE_FAILURE_POLICY", "keep"),
		Timezone:         utils.Getenv("TIMEZONE", "America/Sao_Paulo"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return fmt.Errorf("%w: SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase store", ErrConfig)
		}
	case StorePostgres, StoreLocal:
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrConfig, c.StoreBackend)
	}
	switch c.LocalBackend {
	case LocalFile, LocalRedis, LocalMemory:
	default:
		return fmt.Errorf("%w: unknown LOCAL_BACKEND %q", ErrConfig, c.LocalBackend)
	}
	if c.Operator.Password == "" && c.Operator.PasswordHash == "" {
		return fmt.Errorf("%w: OPERATOR_PASSWORD or OPERATOR_PASSWORD_HASH must be set", ErrConfig)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: TIMEZONE: %v", ErrConfig, err)
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
