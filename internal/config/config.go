package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig          `envPrefix:"APP_"`
	Database     DatabaseConfig     `envPrefix:"DB_"`
	JWT          JWTConfig          `envPrefix:"JWT_"`
	SMTP         SMTPConfig         `envPrefix:"SMTP_"`
	Storage      StorageConfig      `envPrefix:"STORAGE_"`
	Terminal     TerminalConfig     `envPrefix:"TERMINAL_"`
	Retention    RetentionConfig    `envPrefix:"RETENTION_"`
	InitialAdmin InitialAdminConfig `envPrefix:"INITIAL_ADMIN_"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	Env            string   `env:"ENV" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD,required"`
	Name     string `env:"NAME" envDefault:"zmi_time"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string `env:"SECRET_KEY,required"`
	AccessExpiration  string `env:"ACCESS_EXPIRATION_TIME" envDefault:"1h"`
	RefreshExpiration string `env:"REFRESH_EXPIRATION_TIME" envDefault:"168h"`
}

// SMTPConfig holds mail delivery configuration. An empty host disables sending.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"noreply@zmi-time.local"`
	FromName string `env:"FROM_NAME" envDefault:"ZMI Time"`
}

// StorageConfig holds the location where generated export files are kept.
type StorageConfig struct {
	BasePath string `env:"BASE_PATH" envDefault:"./data/exports"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080/files"`
}

// TerminalConfig holds settings for the hardware terminal punch endpoint.
type TerminalConfig struct {
	APIKey    string  `env:"API_KEY"`
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"5"`
	RateBurst int     `env:"RATE_BURST" envDefault:"10"`
}

// RetentionConfig controls how long evaluation and audit log rows are kept.
type RetentionConfig struct {
	EvaluationLogDays int `env:"EVALUATION_LOG_DAYS" envDefault:"90"`
	AuditLogDays      int `env:"AUDIT_LOG_DAYS" envDefault:"365"`
}

// InitialAdminConfig describes the cross-tenant admin ensured on boot.
// An empty email skips the bootstrap.
type InitialAdminConfig struct {
	Email       string `env:"EMAIL"`
	Password    string `env:"PASSWORD"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"Administrator"`
}

func Load() (*Config, error) {
	// Missing .env is fine, the process environment still applies
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) {
			return nil, fmt.Errorf("configuration validation failed: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates cross-field constraints the env tags cannot express
func (c *Config) Validate() error {
	if c.Terminal.RateLimit <= 0 {
		return fmt.Errorf("TERMINAL_RATE_LIMIT must be positive")
	}
	if c.Terminal.RateBurst < 1 {
		return fmt.Errorf("TERMINAL_RATE_BURST must be at least 1")
	}
	if c.Retention.EvaluationLogDays < 1 || c.Retention.AuditLogDays < 1 {
		return fmt.Errorf("retention windows must be at least one day")
	}
	if c.InitialAdmin.Email != "" && len(c.InitialAdmin.Password) < 8 {
		return fmt.Errorf("INITIAL_ADMIN_PASSWORD must be at least 8 characters")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
