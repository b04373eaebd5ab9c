package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBType      string
	MongoURL    string
	MongoDB     string
	PostgresURL string

	// SequenceBackend selects where consignment serial numbers are allocated: mongo | postgres.
	SequenceBackend string

	JWTSecret string
	TokenTTL  time.Duration

	KafkaBroker string
	KafkaTopic  string

	LogLevel string
	Env      string

	CascadeMaxAttempts int
	CascadeRetryDelay  time.Duration
	ReconcileInterval  time.Duration
	QueueCapacity      int
	QueueWorkers       int

	AdminEmail    string
	AdminPassword string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBType:             getEnv("DB_TYPE", "mongo"),
		MongoURL:           getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB", "rrlogistics"),
		PostgresURL:        os.Getenv("POSTGRES_URL"),
		SequenceBackend:    getEnv("SEQUENCE_BACKEND", "mongo"),
		JWTSecret:          getEnv("JWT_SECRET", "change-me"),
		TokenTTL:           getDuration("TOKEN_TTL", 24*time.Hour),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "consignment-events"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Env:                getEnv("APP_ENV", "production"),
		CascadeMaxAttempts: getInt("CASCADE_MAX_ATTEMPTS", 5),
		CascadeRetryDelay:  getDuration("CASCADE_RETRY_DELAY", 5*time.Second),
		ReconcileInterval:  getDuration("RECONCILE_INTERVAL", 5*time.Minute),
		QueueCapacity:      getInt("QUEUE_CAPACITY", 256),
		QueueWorkers:       getInt("QUEUE_WORKERS", 4),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
