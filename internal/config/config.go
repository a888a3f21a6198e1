package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Postgres  PostgresConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
	CORSAllowOrigins      string
}

// StorageConfig selects the backing store for every repository.
type StorageConfig struct {
	Driver string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
	ConnectRetries int
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI                           string
	Database                      string
	ServerSelectionTimeoutSeconds int
	OperationTimeoutSeconds       int
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	RefreshTokenTTLHours  int
	BcryptCost            int
	AdminAPIKey           string
	SessionPruneInterval  time.Duration
}

// RateLimitConfig holds per-limiter budgets.
type RateLimitConfig struct {
	Enabled  bool
	General  LimitRule
	Auth     LimitRule
	Anamnese LimitRule
}

// LimitRule is a fixed window budget.
type LimitRule struct {
	Max    int
	Window time.Duration
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "vetclinic-service"),
			Env:                   strings.ToLower(getEnv("APP_ENV", EnvProduction)),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 10*1024*1024),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverPostgres)),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			ConnectRetries: getEnvAsInt("POSTGRES_CONNECT_RETRIES", 5),
		},
		Mongo: MongoConfig{
			URI:                           os.Getenv("MONGO_URI"),
			Database:                      getEnv("MONGO_DATABASE", "vetclinic"),
			ServerSelectionTimeoutSeconds: getEnvAsInt("MONGO_SERVER_SELECTION_TIMEOUT_SECONDS", 5),
			OperationTimeoutSeconds:       getEnvAsInt("MONGO_OPERATION_TIMEOUT_SECONDS", 45),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             os.Getenv("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			RefreshTokenTTLHours:  getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_HOURS", 7*24),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
			AdminAPIKey:           os.Getenv("ADMIN_API_KEY"),
			SessionPruneInterval:  getEnvAsDuration("AUTH_SESSION_PRUNE_INTERVAL", time.Hour),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
			General: LimitRule{
				Max:    getEnvAsInt("RATE_LIMIT_GENERAL_MAX", 100),
				Window: getEnvAsDuration("RATE_LIMIT_GENERAL_WINDOW", 15*time.Minute),
			},
			Auth: LimitRule{
				Max:    getEnvAsInt("RATE_LIMIT_AUTH_MAX", 5),
				Window: getEnvAsDuration("RATE_LIMIT_AUTH_WINDOW", 15*time.Minute),
			},
			Anamnese: LimitRule{
				Max:    getEnvAsInt("RATE_LIMIT_ANAMNESE_MAX", 10),
				Window: getEnvAsDuration("RATE_LIMIT_ANAMNESE_WINDOW", time.Hour),
			},
		},
	}

	if cfg.Auth.JWTSecret == "" && cfg.App.IsDevelopment() {
		cfg.Auth.JWTSecret = "dev-secret"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.App.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		errs = append(errs, fmt.Errorf("invalid APP_ENV %q", c.App.Env))
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when STORAGE_DRIVER=postgres"))
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when STORAGE_DRIVER=mongo"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST out of range: %d", c.Auth.BcryptCost))
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsDevelopment reports whether verbose error responses are allowed.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == EnvDevelopment
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the access token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	if a.RefreshTokenTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(a.RefreshTokenTTLHours) * time.Hour
}

// ServerSelectionTimeout returns how long the driver waits for a usable server.
func (m MongoConfig) ServerSelectionTimeout() time.Duration {
	return time.Duration(m.ServerSelectionTimeoutSeconds) * time.Second
}

// OperationTimeout returns the per-operation timeout.
func (m MongoConfig) OperationTimeout() time.Duration {
	return time.Duration(m.OperationTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
