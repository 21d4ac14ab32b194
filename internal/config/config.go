package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (driver switch via ENV, default: sqlite)
	DBDriver      string // "sqlite", "pgx" or "mongodb"
	DBConnection  string
	MongoDatabase string

	// Session
	JWTSecret     string
	SessionExpiry time.Duration

	// Uploads
	StorageDriver      string // "local" or "s3"
	UploadsPath        string
	PhotoMaxSize       int64
	CertificateMaxSize int64

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.), only read when StorageDriver is "s3"
	S3Region              string
	S3Bucket              string
	S3AccessKey           string
	S3SecretKey           string
	S3Endpoint            string        // Optional: for S3-compatible services
	S3PresignExpiryPublic time.Duration // Expiry for profile photo and certificate URLs
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Profiledesk"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:3000"),
		Port:    envString("PORT", "3000"),

		// Database
		DBDriver:      envString("DB_DRIVER", "sqlite"),
		DBConnection:  envString("DB_CONNECTION", "./data/profiledesk.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
		MongoDatabase: envString("MONGO_DATABASE", "loginApp"),

		// Session
		JWTSecret:     envRequired("JWT_SECRET"),
		SessionExpiry: envDuration("SESSION_EXPIRY", 24*time.Hour), // 1 day

		// Uploads
		StorageDriver:      envString("STORAGE_DRIVER", "local"),
		UploadsPath:        envString("UPLOADS_PATH", "uploads"),
		PhotoMaxSize:       envInt64("PHOTO_MAX_SIZE", 5<<20),        // 5 MiB
		CertificateMaxSize: envInt64("CERTIFICATE_MAX_SIZE", 10<<20), // 10 MiB

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:              envString("S3_REGION", ""),
		S3Bucket:              envString("S3_BUCKET", ""),
		S3AccessKey:           envString("S3_ACCESS_KEY", ""),
		S3SecretKey:           envString("S3_SECRET_KEY", ""),
		S3Endpoint:            envString("S3_ENDPOINT", ""),
		S3PresignExpiryPublic: envDuration("S3_PRESIGN_EXPIRY_PUBLIC", 168*time.Hour), // 7 days
	}

	err = cfg.Validate()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// Validate checks settings that depend on each other.
// Development allows email to run in log mode, production does not.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case "sqlite", "pgx", "mongodb":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	switch c.StorageDriver {
	case "local":
		if c.UploadsPath == "" {
			errs = append(errs, errors.New("UPLOADS_PATH is required for local storage"))
		}
	case "s3":
		if c.S3Region == "" || c.S3Bucket == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			errs = append(errs, errors.New("S3_REGION, S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver))
	}

	if c.PhotoMaxSize <= 0 || c.CertificateMaxSize <= 0 {
		errs = append(errs, errors.New("upload size limits must be positive"))
	}

	if c.IsProduction() && c.ResendAPIKey == "" {
		errs = append(errs, errors.New("production deployment requires RESEND_API_KEY (set APP_ENV=development for email log mode)"))
	}

	return errors.Join(errs...)
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SecureCookies reports whether session cookies carry the Secure flag.
// COOKIE_SECURE overrides the production default for TLS-terminating proxies.
func (c *Config) SecureCookies() bool {
	return envBool("COOKIE_SECURE", c.IsProduction())
}
