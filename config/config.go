package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Notify backend names accepted by NOTIFY_BACKEND.
const (
	NotifyBackendLog      = "log"
	NotifyBackendRabbitMQ = "rabbitmq"
	NotifyBackendPubSub   = "pubsub"
)

type Config struct {
	ServerPort   int
	JWTSecret    string
	SeedDemoData bool
	Log          LogConfig
	Holiday      HolidayConfig
	Notify       NotifyConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type HolidayConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type NotifyConfig struct {
	Backend  string
	HRInbox  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL          string
	QueueDurable bool
}

type PubSubConfig struct {
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort:   getEnvInt("SERVER_PORT", 8080),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		SeedDemoData: getEnvBool("SEED_DEMO_DATA", true),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Holiday: HolidayConfig{
			APIKey:  getEnv("HOLIDAY_API_KEY", ""),
			BaseURL: getEnv("HOLIDAY_API_BASE_URL", "https://calendarific.com/api/v2"),
			Timeout: getEnvDuration("HOLIDAY_API_TIMEOUT", 5*time.Second),
		},
		Notify: NotifyConfig{
			Backend: getEnv("NOTIFY_BACKEND", NotifyBackendLog),
			HRInbox: getEnv("NOTIFY_HR_INBOX", "hr@company.com"),
			RabbitMQ: RabbitMQConfig{
				URL:          getEnv("RABBITMQ_URL", ""),
				QueueDurable: getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			},
			PubSub: PubSubConfig{
				ProjectID:       getEnv("PUBSUB_PROJECT_ID", ""),
				CredentialsFile: getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			},
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(strings.TrimSpace(valueStr)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
