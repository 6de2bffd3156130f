package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration (optional - callback dedup and rate limiting)
	RedisURL string

	// M-Pesa Daraja configuration
	DarajaBaseURL  string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	PassKey        string
	CallbackURL    string
	MpesaMock      bool

	// Status polling configuration
	PollIntervalSeconds int
	PollMaxAttempts     int

	// Settlement currency
	Currency string

	// SMTP relay configuration (preferred email channel)
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPSecure bool

	// Brevo configuration (fallback email channel)
	BrevoAPIKey string

	// Sender identity for receipt emails
	ReceiptFromEmail string
	ReceiptFromName  string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                getEnv("PORT", "8080"),
		Mode:                getEnv("GIN_MODE", "debug"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		DarajaBaseURL:       getEnv("DARAJA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		ConsumerKey:         getEnv("MPESA_CONSUMER_KEY", ""),
		ConsumerSecret:      getEnv("MPESA_CONSUMER_SECRET", ""),
		ShortCode:           getEnv("MPESA_SHORTCODE", "174379"),
		PassKey:             getEnv("MPESA_PASSKEY", ""),
		CallbackURL:         getEnv("MPESA_CALLBACK_URL", "https://yourdomain.com/api/payment/callback"),
		MpesaMock:           getEnvBool("MPESA_MOCK", false),
		PollIntervalSeconds: getEnvInt("MPESA_POLL_INTERVAL_SECONDS", 5),
		PollMaxAttempts:     getEnvInt("MPESA_POLL_MAX_ATTEMPTS", 24),
		Currency:            getEnv("CURRENCY", "KES"),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getEnvInt("SMTP_PORT", 587),
		SMTPUser:            getEnv("SMTP_USER", ""),
		SMTPPass:            getEnv("SMTP_PASS", ""),
		SMTPSecure:          getEnvBool("SMTP_SECURE", false),
		BrevoAPIKey:         getEnv("BREVO_API_KEY", ""),
		ReceiptFromEmail:    getEnv("RECEIPT_FROM_EMAIL", ""),
		ReceiptFromName:     getEnv("RECEIPT_FROM_NAME", "ModernShop"),
	}

	return nil
}

// IsDebugMode reports whether the server runs in debug mode
func IsDebugMode() bool {
	return AppConfig != nil && AppConfig.Mode == "debug"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
