package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret       = "a-very-secret-key-should-be-longer-and-random"
	defaultJWTIssuer       = "wallet-ledger"
	defaultRemoteTimeout   = 10 * time.Second
	defaultRefreshInterval = 5 * time.Minute
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string
	JWTSecret      string
	JWTIssuer      string

	CORSAllowedOrigins []string
	RateLimit          string // ulule limiter format, e.g. "100-M"
	PosthogAPIKey      string

	// Remote sources
	CoinbaseBaseURL          string
	PriceCurrencyPair        string
	FirebaseProjectID        string
	FirebaseRegion           string
	FirebaseFunctionsBaseURL string
	FirebaseCredentialsFile  string
	FirestoreEndpoint        string
	RemoteTimeout            time.Duration

	// RefreshInterval of zero disables the background refresher.
	RefreshInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("COINBASE_BASE_URL", "https://api.coinbase.com")
	viper.SetDefault("PRICE_CURRENCY_PAIR", "BTC-USD")
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("FIREBASE_REGION", "us-central1")
	viper.SetDefault("FIREBASE_FUNCTIONS_BASE_URL", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("FIRESTORE_ENDPOINT", "")
	viper.SetDefault("REMOTE_TIMEOUT", defaultRemoteTimeout.String())
	viper.SetDefault("REFRESH_INTERVAL", defaultRefreshInterval.String())

	// Environment variables override the defaults and the .env file.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Snapshots will not be persisted.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.FirebaseProjectID = viper.GetString("FIREBASE_PROJECT_ID")
	if cfg.FirebaseProjectID == "" {
		log.Println("Warning: FIREBASE_PROJECT_ID not set. Checking history and balance refreshes are disabled.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.CoinbaseBaseURL = viper.GetString("COINBASE_BASE_URL")
	cfg.PriceCurrencyPair = viper.GetString("PRICE_CURRENCY_PAIR")
	cfg.FirebaseRegion = viper.GetString("FIREBASE_REGION")
	cfg.FirebaseFunctionsBaseURL = viper.GetString("FIREBASE_FUNCTIONS_BASE_URL")
	cfg.FirebaseCredentialsFile = viper.GetString("FIREBASE_CREDENTIALS_FILE")
	cfg.FirestoreEndpoint = viper.GetString("FIRESTORE_ENDPOINT")
	cfg.RemoteTimeout = durationOrDefault("REMOTE_TIMEOUT", defaultRemoteTimeout)
	cfg.RefreshInterval = durationOrDefault("REFRESH_INTERVAL", defaultRefreshInterval)

	return cfg, nil
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
