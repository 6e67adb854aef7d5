package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	JWT        JWTConfig
	Database   DatabaseConfig
	Events     EventsConfig
	Storage    StorageConfig
}

type JWTConfig struct {
	Secret   string
	TTLHours int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// EventsConfig selects the message broker used for platform notifications.
// Backend is "rabbitmq", "pubsub", or "" to disable event publishing.
type EventsConfig struct {
	Backend  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

// StorageConfig selects the object store used for avatar images.
// Backend is "minio", "gcs", or "" to disable avatar storage.
type StorageConfig struct {
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "votesecure"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "votesecure_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	eventsConfig := EventsConfig{
		Backend: getEnv("EVENTS_BACKEND", ""),
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH_COUNT", 0),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
	}

	storageConfig := StorageConfig{
		Backend: getEnv("STORAGE_BACKEND", ""),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "votesecure-avatars"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", ""),
			TTLHours: getEnvInt("JWT_TTL_HOURS", 24),
		},
		Database: dbConfig,
		Events:   eventsConfig,
		Storage:  storageConfig,
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
	if value, exists := os.LookupEnv(key); exists {
		return value == "true" || value == "1"
	}
	return defaultValue
}
