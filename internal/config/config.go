package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultVerifyCodePepper = "change-me-verification-pepper"
	defaultWebhookSecret    = "change-me-webhook-secret"
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:"beautybook.db"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	Auth     AuthConfig
	SMTP     SMTPConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Payments PaymentsConfig
	Limits   RateLimitConfig
	Cleanup  CleanupConfig
}

type AuthConfig struct {
	JWTSecret              string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	JWTAccessTTL           time.Duration `envconfig:"JWT_ACCESS_TTL" default:"24h"`
	VerificationCodePepper string        `envconfig:"VERIFICATION_CODE_PEPPER" default:"change-me-verification-pepper"`
	VerifyCodeTTL          time.Duration `envconfig:"VERIFY_CODE_TTL" default:"5m"`
	VerifyResendCooldown   time.Duration `envconfig:"VERIFY_RESEND_COOLDOWN" default:"60s"`
	VerifyMaxAttempts      int           `envconfig:"VERIFY_MAX_ATTEMPTS" default:"5"`
}

// SMTPConfig is optional; with an empty host codes are printed to the log instead.
type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	User     string `envconfig:"SMTP_USER"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM" default:"no-reply@beautybook.local"`
}

type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	SlotsTTL time.Duration `envconfig:"SLOTS_CACHE_TTL" default:"30s"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"booking-events"`
}

type PaymentsConfig struct {
	WebhookSecret string `envconfig:"PAYMENT_WEBHOOK_SECRET" default:"change-me-webhook-secret"`
}

type RateLimitConfig struct {
	AuthRPS   float64 `envconfig:"AUTH_RATE_RPS" default:"1"`
	AuthBurst int     `envconfig:"AUTH_RATE_BURST" default:"5"`
}

type CleanupConfig struct {
	Schedule  string        `envconfig:"CLEANUP_SCHEDULE" default:"@every 10m"`
	Retention time.Duration `envconfig:"CLEANUP_RETENTION" default:"0s"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool { return isProdLike(c.AppEnv) }

func validateConfig(cfg *Config) error {
	if cfg.Auth.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.Auth.VerifyCodeTTL <= 0 {
		return fmt.Errorf("VERIFY_CODE_TTL must be > 0")
	}
	if cfg.Auth.VerifyResendCooldown <= 0 {
		return fmt.Errorf("VERIFY_RESEND_COOLDOWN must be > 0")
	}
	if cfg.Auth.VerifyMaxAttempts <= 0 {
		return fmt.Errorf("VERIFY_MAX_ATTEMPTS must be > 0")
	}
	if cfg.Cleanup.Retention < 0 {
		return fmt.Errorf("CLEANUP_RETENTION must be >= 0")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.Auth.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.Auth.VerificationCodePepper, defaultVerifyCodePepper) {
			return fmt.Errorf("in prod/release VERIFICATION_CODE_PEPPER must be set and not default")
		}
		if isEmptyOrDefault(cfg.Payments.WebhookSecret, defaultWebhookSecret) {
			return fmt.Errorf("in prod/release PAYMENT_WEBHOOK_SECRET must be set and not default")
		}
		if cfg.SMTP.Host == "" {
			return fmt.Errorf("in prod/release SMTP_HOST must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
