package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	Port       string
	Env        string
	LogLevel   string
	AppURL     string
	CORSOrigin string

	DBURL     string
	JWTSecret string

	AdminEmail        string
	AdminPasswordHash string
	AdminEmails       []string

	GoogleClientID         string
	GoogleClientSecret     string
	GoogleRedirectURL      string
	GoogleFrontendRedirect string

	PaymentProvider     string
	PaymentCurrency     string
	RazorpayKeyID       string
	RazorpayKeySecret   string
	StripeSecretKey     string
	StripeWebhookSecret string

	StorageDriver string
	S3AccessKey   string
	S3SecretKey   string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3CDNURL      string
	UploadDir     string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	RedisURL         string
	ReminderSchedule string
	ReminderAfter    time.Duration
	MaxUploadBytes   int64
	ConferenceName   string
}

// Load reads .env (if present) and the process environment.
// Missing DB_URL or JWT_SECRET is fatal.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	port := getEnv("PORT", "8080")
	return &Config{
		Port:       port,
		Env:        getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		AppURL:     strings.TrimRight(getEnv("APP_URL", "http://localhost:"+port), "/"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		DBURL:     mustEnv("DB_URL"),
		JWTSecret: mustEnv("JWT_SECRET"),

		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminEmails:       splitList(getEnv("ADMIN_EMAILS", "")),

		GoogleClientID:         getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:     getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:      getEnv("GOOGLE_REDIRECT_URL", ""),
		GoogleFrontendRedirect: getEnv("GOOGLE_FRONTEND_REDIRECT", ""),

		PaymentProvider:     strings.ToLower(getEnv("PAYMENT_PROVIDER", "razorpay")),
		PaymentCurrency:     strings.ToUpper(getEnv("PAYMENT_CURRENCY", "INR")),
		RazorpayKeyID:       getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:   getEnv("RAZORPAY_KEY_SECRET", ""),
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "disk")),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3CDNURL:      getEnv("S3_CDN_URL", ""),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),

		RedisURL:         getEnv("REDIS_URL", ""),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", ""),
		ReminderAfter:    time.Duration(cast.ToInt64(getEnv("REMINDER_AFTER_HOURS", "72"))) * time.Hour,
		MaxUploadBytes:   cast.ToInt64(getEnv("MAX_UPLOAD_MB", "10")) << 20,
		ConferenceName:   getEnv("CONFERENCE_NAME", "Conference"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
