package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Station  string
	API      APIConfig
	Realtime RealtimeConfig
	Session  SessionConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Health   HealthConfig
	Log      LogConfig
}

type APIConfig struct {
	BaseURL     string
	Timeout     time.Duration
	Retry       int
	StaleWindow time.Duration
}

type RealtimeConfig struct {
	URL                  string
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int
	HandshakeTimeout     time.Duration
}

type SessionConfig struct {
	TokenFile string
	Token     string
}

type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
}

type KafkaConfig struct {
	Enabled              bool
	Brokers              []string
	ProducerRetryMax     int
	ProducerRequiredAcks int
}

type HealthConfig struct {
	Enabled  bool
	GRpcPort int
}

type LogConfig struct {
	Level    string
	Mode     string
	Encoding string
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Env:     getEnv("ENV", "development"),
		Station: getEnv("STATION_ID", "gate-terminal"),
		API: APIConfig{
			BaseURL:     getEnv("API_BASE_URL", "http://localhost:3000/api/v1"),
			Timeout:     getEnvAsDuration("API_TIMEOUT", 15*time.Second),
			Retry:       getEnvAsInt("API_RETRY", 1),
			StaleWindow: getEnvAsDuration("API_STALE_WINDOW", 5*time.Minute),
		},
		Realtime: RealtimeConfig{
			URL:                  getEnv("WS_URL", "ws://localhost:3000/api/v1/ws"),
			ReconnectInterval:    getEnvAsDuration("WS_RECONNECT_INTERVAL", 3*time.Second),
			MaxReconnectAttempts: getEnvAsInt("WS_MAX_RECONNECT_ATTEMPTS", 5),
			HandshakeTimeout:     getEnvAsDuration("WS_HANDSHAKE_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			TokenFile: getEnv("SESSION_TOKEN_FILE", ".parkgate-session.json"),
			Token:     getEnv("SESSION_TOKEN", ""),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Kafka: KafkaConfig{
			Enabled:              getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:              getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			ProducerRetryMax:     getEnvAsInt("KAFKA_PRODUCER_RETRY_MAX", 3),
			ProducerRequiredAcks: getEnvAsInt("KAFKA_PRODUCER_REQUIRED_ACKS", 1),
		},
		Health: HealthConfig{
			Enabled:  getEnvAsBool("HEALTH_ENABLED", false),
			GRpcPort: getEnvAsInt("HEALTH_GRPC_PORT", 50070),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Mode:     getEnv("LOG_MODE", "development"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("invalid api base url %q: %w", c.API.BaseURL, err)
	}

	u, err := url.Parse(c.Realtime.URL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		return fmt.Errorf("invalid realtime url %q: scheme must be ws or wss", c.Realtime.URL)
	}

	if c.API.Retry < 0 {
		return fmt.Errorf("invalid api retry count: %d", c.API.Retry)
	}

	if c.Realtime.ReconnectInterval <= 0 {
		return fmt.Errorf("invalid reconnect interval: %v", c.Realtime.ReconnectInterval)
	}

	if c.Realtime.MaxReconnectAttempts < 0 {
		return fmt.Errorf("invalid max reconnect attempts: %d", c.Realtime.MaxReconnectAttempts)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required")
	}

	if c.Health.Enabled && (c.Health.GRpcPort <= 0 || c.Health.GRpcPort > 65535) {
		return fmt.Errorf("invalid health port: %d", c.Health.GRpcPort)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	// Split by comma
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
