package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64
	LogLevel       string

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string
	KafkaGroupID string

	// Mapper
	MapperInputTopic      string
	MapperOutputTopic     string
	MapperDLQTopic        string
	MapperResultTTL       time.Duration
	MapperPropertiesFile  string
	MapperConsumerEnabled bool

	// Forwarding to the appointment backend
	ForwardURL          string
	ForwardTokenURL     string
	ForwardClientID     string
	ForwardClientSecret string
	ForwardScopes       []string
	ForwardTimeout      time.Duration
	ForwardRetries      int
}

// Load reads configuration from the environment, after applying an optional
// .env file in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8090"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "synaptica"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "synaptica123"),
		PostgresDB:       getEnv("POSTGRES_DB", "synaptica"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "request-mapper"),

		MapperInputTopic:      getEnv("MAPPER_INPUT_TOPIC", "intake-requests"),
		MapperOutputTopic:     getEnv("MAPPER_OUTPUT_TOPIC", "appointment-requests"),
		MapperDLQTopic:        getEnv("MAPPER_DLQ_TOPIC", ""),
		MapperResultTTL:       getDuration("MAPPER_RESULT_TTL", 24*time.Hour),
		MapperPropertiesFile:  getEnv("MAPPER_PROPERTIES_FILE", ""),
		MapperConsumerEnabled: getBoolEnv("MAPPER_CONSUMER_ENABLED", true),

		ForwardURL:          getEnv("FORWARD_URL", ""),
		ForwardTokenURL:     getEnv("FORWARD_TOKEN_URL", ""),
		ForwardClientID:     getEnv("FORWARD_CLIENT_ID", ""),
		ForwardClientSecret: getEnv("FORWARD_CLIENT_SECRET", ""),
		ForwardScopes:       getStringSliceEnv("FORWARD_SCOPES", nil),
		ForwardTimeout:      getDuration("FORWARD_TIMEOUT", 10*time.Second),
		ForwardRetries:      getIntEnv("FORWARD_RETRIES", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
