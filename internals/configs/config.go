package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string

	GoogleClientID string

	ResendAPIKey    string
	MailFrom        string
	AdminNotifyTo   string
	TurnstileSecret string

	MidtransServerKey string

	OSSEndpoint   string
	OSSBucket     string
	OSSAccessKey  string
	OSSSecretKey  string
	OSSPublicBase string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running on Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")

	ResendAPIKey = GetEnv("RESEND_API_KEY")
	MailFrom = GetEnv("MAIL_FROM", "CourseDig <no-reply@coursedig.com>")
	AdminNotifyTo = GetEnv("ADMIN_NOTIFY_TO")
	TurnstileSecret = GetEnv("TURNSTILE_SECRET_KEY")

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")

	OSSEndpoint = GetEnv("OSS_ENDPOINT")
	OSSBucket = GetEnv("OSS_BUCKET")
	OSSAccessKey = GetEnv("OSS_ACCESS_KEY_ID")
	OSSSecretKey = GetEnv("OSS_ACCESS_KEY_SECRET")
	OSSPublicBase = GetEnv("OSS_PUBLIC_BASE_URL")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}
	if ResendAPIKey == "" {
		log.Println("⚠️ RESEND_API_KEY is not set, outbound email disabled")
	}
	if TurnstileSecret == "" {
		log.Println("⚠️ TURNSTILE_SECRET_KEY is not set, anti-bot check disabled")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// IsProduction reports whether the service runs with production semantics
// (mandatory verification email on registration, strict upstream handling).
func IsProduction() bool {
	env := GetEnv("APP_ENV", "development")
	return env == "production"
}
