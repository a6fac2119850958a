package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPPort string

	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	JWTSecret string
	TokenTTL  time.Duration

	AllowedOrigins []string
	CookieSecure   bool
	CookieDomain   string

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	MailFrom         string
	VerifyEmailURL   string
	ResetPasswordURL string

	AdminEmail    string
	AdminPassword string

	StorageProvider       string
	GCSBucket             string
	CredentialsFile       string
	R2Bucket              string
	R2AccessKeyID         string
	R2SecretAccessKey     string
	R2Endpoint            string
	R2PublicDomain        string
	MaxUploadSizeMB       int
	AllowedFileExtensions []string
	AllowedFileMimeTypes  []string

	RedisAddr           string
	AuthRateLimitPerMin int
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		MongoURI:              os.Getenv("MONGODB_URI"),
		MongoDatabase:         getEnv("DATABASE_NAME", "deals"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		AllowedOrigins:        splitCSV(os.Getenv("ALLOWED_ORIGINS")),
		CookieSecure:          getEnvBool("COOKIE_SECURE", true),
		CookieDomain:          os.Getenv("COOKIE_DOMAIN"),
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              getEnvInt("SMTP_PORT", 465),
		SMTPUsername:          os.Getenv("SMTP_USERNAME"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
		MailFrom:              os.Getenv("MAIL_FROM"),
		VerifyEmailURL:        getEnv("VERIFY_EMAIL_URL", "http://localhost:8080/connection/verify-email"),
		ResetPasswordURL:      getEnv("RESET_PASSWORD_URL", "http://localhost:3000/reset-password"),
		AdminEmail:            strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
		StorageProvider:       strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_PROVIDER"))),
		GCSBucket:             os.Getenv("GCS_BUCKET"),
		CredentialsFile:       os.Getenv("CREDENTIALS_FILE_LOCATION"),
		R2Bucket:              os.Getenv("R2_BUCKET"),
		R2AccessKeyID:         os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:     os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2Endpoint:            os.Getenv("R2_ENDPOINT"),
		R2PublicDomain:        os.Getenv("R2_PUBLIC_DOMAIN"),
		MaxUploadSizeMB:       getEnvInt("MAX_UPLOAD_SIZE_MB", 5),
		AllowedFileExtensions: splitCSV(getEnv("ALLOWED_FILE_EXTENSIONS", ".jpg,.jpeg,.png,.webp")),
		AllowedFileMimeTypes:  splitCSV(getEnv("ALLOWED_FILE_MIME_TYPES", "image/jpeg,image/png,image/webp")),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		AuthRateLimitPerMin:   getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 30),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.MongoURI == "" {
		errs = append(errs, "MONGODB_URI is required")
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 chars")
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, "TOKEN_TTL must be positive")
	}
	if c.SMTPHost != "" && (c.SMTPPort <= 0 || c.SMTPPort > 65535) {
		errs = append(errs, "SMTP_PORT must be a valid port")
	}
	switch c.StorageProvider {
	case "":
	case "gcs":
		if c.GCSBucket == "" {
			errs = append(errs, "GCS_BUCKET is required when STORAGE_PROVIDER=gcs")
		}
	case "r2":
		if c.R2Bucket == "" || c.R2AccessKeyID == "" || c.R2SecretAccessKey == "" || c.R2Endpoint == "" {
			errs = append(errs, "missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
		}
	default:
		errs = append(errs, "STORAGE_PROVIDER must be one of: gcs, r2")
	}
	if c.MaxUploadSizeMB <= 0 {
		errs = append(errs, "MAX_UPLOAD_SIZE_MB must be > 0")
	}
	if c.AuthRateLimitPerMin <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT_PER_MIN must be > 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}
