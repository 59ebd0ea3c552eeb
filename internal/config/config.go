package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort string

	// Firebase project that owns the FCM send endpoint.
	FCMProjectID string
	// Path to the service account JSON (client_email + private_key).
	FCMCredentialsFile string
	// Base URL of the FCM v1 API, overridable for tests.
	FCMEndpoint string
	// OAuth2 token endpoint used for the JWT-bearer exchange.
	OAuthTokenURL string

	// Bound on every outbound provider/identity call.
	ProviderTimeout time.Duration

	AllowedOrigin string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		ServerPort: getEnv("SERVER_PORT", "8080"),

		FCMProjectID:       os.Getenv("FCM_PROJECT_ID"),
		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", "firebase-service-account.json"),
		FCMEndpoint:        getEnv("FCM_ENDPOINT", "https://fcm.googleapis.com/v1"),
		OAuthTokenURL:      getEnv("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token"),

		ProviderTimeout: getEnvAsDuration("PROVIDER_TIMEOUT", 10*time.Second),

		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
	}, nil
}

func getEnv(key, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return def
	}
	return value
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid duration for %s, using default %s: %v", key, def, err)
		return def
	}
	return d
}
