package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Storage drivers understood by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	LogLevel      string
	EnableDBCheck bool

	StorageDriver  string
	DatabaseURL    string
	SQLitePath     string
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	CORSAllowedOrigins []string
	RateLimit          string // ulule/limiter formatted rate, e.g. "100-M"

	AMQPURL      string
	AMQPExchange string

	PosthogAPIKey string

	PaymentScheme       string
	PaymentPayeeAddress string
	PaymentPayeeName    string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_DB_PATH", "data/billing.db")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations/postgres")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "billing-app")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "billing.invoices")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("PAYMENT_SCHEME", "upi")
	v.SetDefault("PAYMENT_PAYEE_ADDRESS", "billing@upi")
	v.SetDefault("PAYMENT_PAYEE_NAME", "Billing App")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:       strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DatabaseURL:         v.GetString("PGSQL_URL"),
		SQLitePath:          v.GetString("SQLITE_DB_PATH"),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:           v.GetString("RATE_LIMIT"),
		AMQPURL:             v.GetString("AMQP_URL"),
		AMQPExchange:        v.GetString("AMQP_EXCHANGE"),
		PosthogAPIKey:       v.GetString("POSTHOG_API_KEY"),
		PaymentScheme:       v.GetString("PAYMENT_SCHEME"),
		PaymentPayeeAddress: v.GetString("PAYMENT_PAYEE_ADDRESS"),
		PaymentPayeeName:    v.GetString("PAYMENT_PAYEE_NAME"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
	case StorageSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_DB_PATH is required when STORAGE_DRIVER is %q", StorageSQLite)
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q, expected %q or %q", cfg.StorageDriver, StoragePostgres, StorageSQLite)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if err := validateOrigins(cfg.CORSAllowedOrigins); err != nil {
		return nil, err
	}

	if cfg.AMQPURL == "" {
		log.Println("Warning: AMQP_URL not set. Invoice events will not be published.")
	}

	return cfg, nil
}

// validateOrigins rejects origin lists the CORS middleware cannot start with.
func validateOrigins(origins []string) error {
	if len(origins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	for _, origin := range origins {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS entry %q must start with http:// or https://, or be *", origin)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
