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
	ModeProduction  = "production"
	ModeDevelopment = "development"

	minProductionSecretLength = 32
)

var ErrMisconfigured = errors.New("server configuration error")

type Config struct {
	Mode     string
	Port     string
	LogLevel string
	WebDir   string
	// TrustedProxies lists the proxy IPs or CIDRs whose forwarding headers
	// are believed when resolving the client address. Empty trusts none.
	TrustedProxies []string
	CORS           CORSConfig
	Auth           AuthConfig
	Store          StoreConfig
	Redis          RedisConfig
	Storage        StorageConfig
	Listing        ListingConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type AuthConfig struct {
	JWTSecret      string
	AdminEmail     string
	AdminPassword  string
	CookieDomain   string
	CookieSameSite string
}

type StoreConfig struct {
	DatabaseURL   string
	MongoDatabase string
	Postgres      PostgresConfig
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type RedisConfig struct {
	URL string
}

type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Enabled reports whether presigned uploads can be issued.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type ListingConfig struct {
	Cooldown time.Duration
}

// Load reads the process environment. A .env file in the working
// directory is applied first without overriding variables that are
// already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Mode:           normalizeMode(os.Getenv("APP_ENV")),
		Port:           getenv("PORT", "8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		WebDir:         getenv("WEB_DIR", "./web"),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		CORS: CORSConfig{
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			AdminEmail:     strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
			AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
			CookieDomain:   os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookieSameSite: getenv("AUTH_COOKIE_SAMESITE", "lax"),
		},
		Store: StoreConfig{
			DatabaseURL:   firstNonEmpty(os.Getenv("DATABASE_URL"), os.Getenv("MONGODB_URI")),
			MongoDatabase: getenv("MONGODB_DATABASE", "passiton"),
			Postgres: PostgresConfig{
				Host:     getenv("PGHOST", "localhost"),
				Port:     getenv("PGPORT", "5432"),
				User:     os.Getenv("PGUSER"),
				Password: os.Getenv("PGPASSWORD"),
				Database: os.Getenv("PGDATABASE"),
				SSLMode:  getenv("PGSSLMODE", "disable"),
			},
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Storage: StorageConfig{
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        getenv("S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
		Listing: ListingConfig{
			Cooldown: getduration("LISTING_COOLDOWN", 30*time.Second),
		},
	}
}

func (c Config) IsProduction() bool {
	return c.Mode == ModeProduction
}

// Validate checks the settings the session core cannot run without.
// Warnings are returned separately so the caller can log them.
func (c Config) Validate() (warnings []string, err error) {
	var missing []string
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.IsProduction() {
		if c.Auth.AdminEmail == "" {
			missing = append(missing, "ADMIN_EMAIL")
		}
		if c.Auth.AdminPassword == "" {
			missing = append(missing, "ADMIN_PASSWORD")
		}
		if c.Store.DatabaseURL == "" && (c.Store.Postgres.User == "" || c.Store.Postgres.Database == "") {
			missing = append(missing, "DATABASE_URL")
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required environment variables: %s", ErrMisconfigured, strings.Join(missing, ", "))
	}

	if c.IsProduction() && len(c.Auth.JWTSecret) < minProductionSecretLength {
		warnings = append(warnings, "JWT_SECRET should be at least 32 characters in production")
	}
	if (c.Auth.AdminEmail == "") != (c.Auth.AdminPassword == "") {
		warnings = append(warnings, "ADMIN_EMAIL and ADMIN_PASSWORD must be set together; built-in administrator disabled")
	}
	return warnings, nil
}

func normalizeMode(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "prod", ModeProduction:
		return ModeProduction
	default:
		return ModeDevelopment
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
