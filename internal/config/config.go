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

const devAccessTokenSecret = "fallback-secret-development-only"

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Payments  PaymentsConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	SiteURL               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
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
	AccessTokenSecret  string
	RefreshTokenSecret string
	BcryptCost         int
}

// StorageConfig points at the S3 bucket used for uploads and lease documents.
type StorageConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
}

// PaymentsConfig holds Stripe credentials.
type PaymentsConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

// MailConfig configures transactional email.
type MailConfig struct {
	APIKey       string
	From         string
	SupportEmail string
}

// RateLimitConfig bounds unauthenticated auth endpoints per client IP.
type RateLimitConfig struct {
	AuthPerMinute int
}

// SeedConfig carries credentials for the seed command.
type SeedConfig struct {
	AdminEmail       string
	AdminPassword    string
	ReviewerEmail    string
	ReviewerPassword string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	appEnv := getEnv("APP_ENV", "development")
	accessSecret := os.Getenv("AUTH_ACCESS_TOKEN_SECRET")
	if accessSecret == "" {
		if strings.EqualFold(appEnv, "production") {
			return nil, errors.New("AUTH_ACCESS_TOKEN_SECRET is required when APP_ENV=production")
		}
		accessSecret = devAccessTokenSecret
	}

	mailFrom := getEnv("RESEND_FROM_EMAIL", "onboarding@resend.dev")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ultimate-apartment-manager"),
			Env:                   appEnv,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			SiteURL:               strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
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
			AccessTokenSecret:  accessSecret,
			RefreshTokenSecret: os.Getenv("AUTH_REFRESH_TOKEN_SECRET"),
			BcryptCost:         getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Storage: StorageConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Bucket:          getEnv("AWS_BUCKET_NAME", "apartment-manager-uploads"),
			Endpoint:        os.Getenv("AWS_S3_ENDPOINT"),
		},
		Payments: PaymentsConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			Currency:      strings.ToLower(getEnv("STRIPE_CURRENCY", "usd")),
		},
		Mail: MailConfig{
			APIKey:       os.Getenv("RESEND_API_KEY"),
			From:         mailFrom,
			SupportEmail: getEnv("SUPPORT_EMAIL", mailFrom),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getEnvAsInt("RATE_LIMIT_AUTH_PER_MINUTE", 30),
		},
		Seed: SeedConfig{
			AdminEmail:       getEnv("ADMIN_EMAIL", "admin@ultimateapartmentmanager.com"),
			AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
			ReviewerEmail:    getEnv("REVIEWER_EMAIL", "reviewer@ultimateapartmentmanager.com"),
			ReviewerPassword: os.Getenv("REVIEWER_PASSWORD"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether cookies must be marked Secure.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RefreshSecret returns the refresh signing key, falling back to the access key.
func (a AuthConfig) RefreshSecret() (secret string, fallback bool) {
	if a.RefreshTokenSecret == "" {
		return a.AccessTokenSecret, true
	}
	return a.RefreshTokenSecret, false
}

// Enabled reports whether Redis-backed features should be wired.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
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
