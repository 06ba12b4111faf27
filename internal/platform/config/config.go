package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverPgSQL  = "pgsql"
	StoreDriverMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// StoreDriver selects the repository implementation: "pgsql" or "memory".
	StoreDriver    string
	MigrationsPath string

	PosthogAPIKey string

	// Rate limits in ulule/limiter format, e.g. "5-M".
	LoginRateLimit  string
	RedeemRateLimit string

	// PrioritySweepInterval is how often expired priority listings are cleared. Zero disables the sweep.
	PrioritySweepInterval time.Duration

	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "propnest")
	v.SetDefault("STORE_DRIVER", StoreDriverPgSQL)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("REDEEM_RATE_LIMIT", "10-M")
	v.SetDefault("PRIORITY_SWEEP_INTERVAL", "5m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("METRICS_ENABLED", true)

	// Defaults can be overridden by .env file values, which can then be overridden by actual environment variables.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     v.GetString("PGSQL_URL"),
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTIssuer:       v.GetString("JWT_ISSUER"),
		StoreDriver:     strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		MigrationsPath:  v.GetString("MIGRATIONS_PATH"),
		PosthogAPIKey:   v.GetString("POSTHOG_API_KEY"),
		LoginRateLimit:  v.GetString("LOGIN_RATE_LIMIT"),
		RedeemRateLimit: v.GetString("REDEEM_RATE_LIMIT"),
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	sweepStr := v.GetString("PRIORITY_SWEEP_INTERVAL")
	sweep, err := time.ParseDuration(sweepStr)
	if err != nil || sweep < 0 {
		return nil, fmt.Errorf("invalid PRIORITY_SWEEP_INTERVAL %q", sweepStr)
	}
	cfg.PrioritySweepInterval = sweep

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.StoreDriver {
	case StoreDriverPgSQL:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %q or %q)", cfg.StoreDriver, StoreDriverPgSQL, StoreDriverMemory)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}
