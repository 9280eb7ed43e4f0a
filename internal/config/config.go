// Package config loads the ingest service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source selects where raw reports are consumed from.
type Source string

const (
	SourceNATS  Source = "nats"
	SourceKafka Source = "kafka"
)

// Config holds all service settings.
type Config struct {
	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	Source      Source
	NATSURL     string
	NATSSubject string

	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string // empty disables the sink
	KafkaGroupID     string

	SQLitePath string // empty disables SQLite

	Postgres   PostgresConfig
	ClickHouse ClickHouseConfig

	APIKeys []string // empty disables auth
}

// PostgresConfig is disabled when Host is empty.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseConfig is disabled when Host is empty.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdown, err := time.ParseDuration(envOrDefault("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil || shutdown <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	pgPort, err := envInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, err
	}
	chPort, err := envInt("CLICKHOUSE_PORT", 9000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdown,

		Source:      Source(envOrDefault("SOURCE", string(SourceNATS))),
		NATSURL:     envOrDefault("NATS_URL", "nats://localhost:4222"),
		NATSSubject: envOrDefault("NATS_SUBJECT", "weather.reports"),

		KafkaBrokers:     splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: envOrDefault("KAFKA_SOURCE_TOPIC", "raw-weather-reports"),
		KafkaSinkTopic:   os.Getenv("KAFKA_SINK_TOPIC"),
		KafkaGroupID:     envOrDefault("KAFKA_GROUP_ID", "metar-ingest"),

		SQLitePath: envOrDefaultSet("SQLITE_PATH", "metar.db"),

		Postgres: PostgresConfig{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     pgPort,
			Database: envOrDefault("POSTGRES_DB", "metar"),
			User:     envOrDefault("POSTGRES_USER", "metar"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
		},
		ClickHouse: ClickHouseConfig{
			Host:     os.Getenv("CLICKHOUSE_HOST"),
			Port:     chPort,
			Database: envOrDefault("CLICKHOUSE_DB", "metar"),
			User:     envOrDefault("CLICKHOUSE_USER", "default"),
			Password: os.Getenv("CLICKHOUSE_PASSWORD"),
		},

		APIKeys: splitList(os.Getenv("API_KEYS")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceNATS:
		if c.NATSURL == "" || c.NATSSubject == "" {
			return errors.New("NATS_URL and NATS_SUBJECT are required for SOURCE=nats")
		}
	case SourceKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for SOURCE=kafka")
		}
		if c.KafkaSourceTopic == "" {
			return errors.New("KAFKA_SOURCE_TOPIC is required for SOURCE=kafka")
		}
	default:
		return fmt.Errorf("invalid SOURCE %q: want nats or kafka", c.Source)
	}
	if c.KafkaSinkTopic != "" && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_SINK_TOPIC is set but KAFKA_BROKERS is empty")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: want json or console", c.LogFormat)
	}
	return nil
}

// envOrDefault returns the value of an environment variable or a default.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// envOrDefaultSet is envOrDefault except that a variable set to the empty
// string stays empty, so it can switch a feature off.
func envOrDefaultSet(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
