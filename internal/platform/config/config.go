package config

import (
	"os"
	"strings"
	"time"
)

// PublisherBackend selects the integration-event transport. Resolved once at
// process start; everything downstream receives the constructed publisher,
// never the config.
type PublisherBackend string

const (
	PublisherLocal PublisherBackend = "local"
	PublisherRedis PublisherBackend = "redis"
	PublisherKafka PublisherBackend = "kafka"
)

// Config is the process-wide configuration, resolved from the environment in
// main and passed down explicitly.
type Config struct {
	Addr      string
	Publisher PublisherBackend
	Redis     RedisConfig
	Kafka     KafkaConfig
	Postgres  PostgresConfig
}

// RedisConfig configures the Redis client used by the pub/sub transport.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the Kafka publisher adapter.
type KafkaConfig struct {
	Brokers []string
}

// PostgresConfig configures the pgx pool backing the postgres stores.
// An empty DSN means the in-memory stores are used.
type PostgresConfig struct {
	DSN string
}

// FromEnv builds the configuration from environment variables so main stays
// lean. Defaults favor a single-node development setup.
func FromEnv() Config {
	addr := os.Getenv("KITAHUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	backend := PublisherBackend(os.Getenv("KITAHUB_PUBLISHER"))
	switch backend {
	case PublisherLocal, PublisherRedis, PublisherKafka:
	default:
		backend = PublisherLocal
	}

	brokers := []string{"localhost:9092"}
	if v := os.Getenv("KITAHUB_KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	return Config{
		Addr:      addr,
		Publisher: backend,
		Redis: RedisConfig{
			URL:          os.Getenv("KITAHUB_REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("KITAHUB_POSTGRES_DSN"),
		},
	}
}
