package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const defaultPrefix = "HERMES"

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR"`
	GinMode           string        `default:"debug" envconfig:"GIN_MODE"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"10s" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	GracefulTimeout   time.Duration `default:"10s" envconfig:"GRACEFUL_TIMEOUT"`
}

type Metrics struct {
	Enabled bool `default:"true" envconfig:"ENABLED"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"hermes-receiver" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

// Kafka — параметры клиента лога и цикла чтения.
type Kafka struct {
	Brokers        []string      `default:"kafka:9092" envconfig:"BROKERS"`
	GroupID        string        `default:"hermes" envconfig:"GROUP_ID"`
	StartOffset    string        `default:"last" envconfig:"START_OFFSET"`
	StreamCount    int           `default:"1" envconfig:"STREAM_COUNT"`
	ReadTimeout    time.Duration `default:"5s" envconfig:"READ_TIMEOUT"`
	CommitInterval time.Duration `default:"1s" envconfig:"COMMIT_INTERVAL"`
	MinBytes       int           `default:"1" envconfig:"MIN_BYTES"`
	MaxBytes       int           `default:"10485760" envconfig:"MAX_BYTES"`
	VerifyTopic    bool          `default:"true" envconfig:"VERIFY_TOPIC"`

	// Политика конвейера вокруг ресивера.
	HandleTimeout time.Duration `default:"5s" envconfig:"HANDLE_TIMEOUT"`
	RetryInitial  time.Duration `default:"1s" envconfig:"RETRY_INITIAL"`
	RetryMax      time.Duration `default:"30s" envconfig:"RETRY_MAX"`
}

type Topic struct {
	Group       string `default:"shop" envconfig:"GROUP"`
	Name        string `default:"orders" envconfig:"NAME"`
	ContentType string `default:"JSON" envconfig:"CONTENT_TYPE"`
}

// Cache — кэш последних сообщений для /messages.
type Cache struct {
	Capacity int           `default:"1000" envconfig:"CAPACITY"`
	TTL      time.Duration `default:"10m" envconfig:"TTL"`
}

type Logger struct {
	IsProd bool `default:"false" envconfig:"IS_PROD"`
}

type Config struct {
	HTTP    HTTP
	Metrics Metrics
	Tracing Tracing
	Kafka   Kafka
	Topic   Topic
	Cache   Cache
	Logger  Logger
}

func Load() (Config, error) {
	return LoadWithPrefix(defaultPrefix)
}

// LoadWithPrefix читает конфиг из окружения с заданным префиксом (удобно в тестах).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}
