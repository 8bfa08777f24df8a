// Package config loads runtime settings from the environment (optionally
// seeded from a .env file) and holds the domain constants.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	SequenceRedis    = "redis"
	SequencePostgres = "postgres"
	SequenceScan     = "scan"
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// DSN builds a libpq keyword/value connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type Config struct {
	Port              string
	DatabaseDriver    string
	DB                DBConfig
	Redis             RedisConfig
	JWTSecret         string
	JWTTTL            time.Duration
	JWTIssuer         string
	SequenceBackend   string
	IDPrefix          string
	StrictTransitions bool
	CORSOrigins       []string
	LogLevel          string
	LogFormat         string
	LocalesDir        string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "smartgrievdb")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 72*time.Hour)
	v.SetDefault("JWT_ISSUER", "smartgriev-service")
	v.SetDefault("SEQUENCE_BACKEND", "")
	v.SetDefault("COMPLAINT_ID_PREFIX", DefaultIDPrefix)
	v.SetDefault("STRICT_TRANSITIONS", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOCALES_DIR", "locales")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("PORT"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Port:     v.GetString("DB_PORT"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTTTL:            v.GetDuration("JWT_TTL"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		SequenceBackend:   strings.ToLower(v.GetString("SEQUENCE_BACKEND")),
		IDPrefix:          v.GetString("COMPLAINT_ID_PREFIX"),
		StrictTransitions: v.GetBool("STRICT_TRANSITIONS"),
		CORSOrigins:       splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		LocalesDir:        v.GetString("LOCALES_DIR"),
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if cfg.SequenceBackend == "" {
		cfg.SequenceBackend = defaultSequenceBackend(cfg)
	}
	switch cfg.SequenceBackend {
	case SequenceRedis:
		if !cfg.Redis.Enabled() {
			return nil, fmt.Errorf("SEQUENCE_BACKEND=redis requires REDIS_ADDR")
		}
	case SequencePostgres:
		if cfg.DatabaseDriver != DriverPostgres {
			return nil, fmt.Errorf("SEQUENCE_BACKEND=postgres requires DATABASE_DRIVER=postgres")
		}
	case SequenceScan:
	default:
		return nil, fmt.Errorf("unsupported SEQUENCE_BACKEND %q", cfg.SequenceBackend)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = DefaultIDPrefix
	}

	return cfg, nil
}

func defaultSequenceBackend(cfg *Config) string {
	switch {
	case cfg.Redis.Enabled():
		return SequenceRedis
	case cfg.DatabaseDriver == DriverPostgres:
		return SequencePostgres
	default:
		return SequenceScan
	}
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
