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

	"github.com/vr-ski/TransactionManager/pkg/db"
)

const (
	BrokerNone  = "none"
	BrokerRedis = "redis"
	BrokerKafka = "kafka"
)

type Config struct {
	ServiceName string
	LogLevel    string

	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Database db.Config

	RedisURL        string
	CatalogCacheTTL time.Duration

	JWTSecret      string
	JWTExpireHours int

	EventBroker  string
	KafkaBrokers []string
	KafkaTopic   string

	ThrottleMaxRequests int
	ThrottlePeriod      time.Duration
}

// LoadEnvFiles loads the first config.env or .env it can find. Missing files
// are not an error; the process environment always wins.
func LoadEnvFiles() {
	for _, path := range []string{"config.env", "../config.env", "../../config.env"} {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: config.env and .env files not found, using environment variables only")
	}
}

func Load() *Config {
	return &Config{
		ServiceName: getEnv("SERVICE_NAME", "transaction_manager"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		HTTPPort:        getEnv("HTTP_PORT", "8000"),
		ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		Database: db.Config{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 3306),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_DATABASE", "payments"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			MaxRetries:      getEnvInt("DB_CONNECT_RETRIES", 5),
		},

		RedisURL:        redisURL(),
		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 12),

		EventBroker:  strings.ToLower(getEnv("EVENT_BROKER", BrokerNone)),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "transactions"),

		ThrottleMaxRequests: getEnvInt("THROTTLE_MAX_REQUESTS", 120),
		ThrottlePeriod:      getEnvDuration("THROTTLE_PERIOD", time.Minute),
	}
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if c.JWTExpireHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE_HOURS must be positive"))
	}
	switch c.EventBroker {
	case BrokerNone:
	case BrokerRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("EVENT_BROKER=redis requires REDIS_URL or REDIS_HOST"))
		}
	case BrokerKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("EVENT_BROKER=kafka requires KAFKA_BROKERS"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EVENT_BROKER %q", c.EventBroker))
	}

	return errors.Join(errs...)
}

// TokenTTL is the lifetime of issued access tokens
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpireHours) * time.Hour
}

// redisURL prefers REDIS_URL and otherwise builds one from REDIS_HOST and
// friends. An empty result disables Redis.
func redisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}

	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return ""
	}
	port := getEnv("REDIS_PORT", "6379")
	redisDB := getEnv("REDIS_DB", "0")
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		return fmt.Sprintf("redis://:%s@%s:%s/%s", password, host, port, redisDB)
	}
	return fmt.Sprintf("redis://%s:%s/%s", host, port, redisDB)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
