package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	BackendBaseURL      string
	BridgeBaseURL       string
	ExpoPushURL         string
	HTTPTimeout         time.Duration
	ProjectID           string
	Platform            string
	DataDir             string
	DeviceSecret        string
	PushProvider        string
	FirebaseCredentials string
	GoogleProjectID     string
	GooglePubSubTopic   string
	GoogleCredentials   string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	httpTimeout := 10 * time.Second
	if t := os.Getenv("HTTP_TIMEOUT"); t != "" {
		if parsed, err := time.ParseDuration(t); err == nil {
			httpTimeout = parsed
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		BackendBaseURL:      getEnv("BACKEND_BASE_URL", "http://localhost:3000"),
		BridgeBaseURL:       getEnv("BRIDGE_BASE_URL", "http://localhost:8081"),
		ExpoPushURL:         getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		HTTPTimeout:         httpTimeout,
		ProjectID:           getEnv("PUSH_PROJECT_ID", ""),
		Platform:            getEnv("PLATFORM", "android"),
		DataDir:             getEnv("DATA_DIR", "./data"),
		DeviceSecret:        getEnv("DEVICE_SECRET", ""),
		PushProvider:        getEnv("PUSH_PROVIDER", "expo"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		GooglePubSubTopic:   getEnv("GOOGLE_PUBSUB_TOPIC", "notification-events"),
		GoogleCredentials:   getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
