package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	defaultReadTimeout    = 5 * time.Second
	defaultCommitInterval = time.Second
	defaultDialTimeout    = 10 * time.Second
)

// ConsumerConfig — параметры подключения к Kafka для всех потоков коннектора.
type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	StartOffset string

	ReadTimeout    time.Duration // таймаут простоя одного чтения
	CommitInterval time.Duration // период автокоммита оффсетов ридером
	DialTimeout    time.Duration // таймаут проверки топика
	MinBytes       int
	MaxBytes       int
	VerifyTopic    bool // проверять существование топика при подписке
}

// withDefaults — подставляет значения по умолчанию для незаданных полей.
func (c ConsumerConfig) withDefaults() ConsumerConfig {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	if c.CommitInterval <= 0 {
		c.CommitInterval = defaultCommitInterval
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}
	return c
}

// ReaderConfig — конфигурация kafka.Reader для одного потока топика.
// Коммит оффсетов — забота ридера (CommitInterval), а не получателя.
func (c *ConsumerConfig) ReaderConfig(topic string) kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          topic,
		CommitInterval: c.CommitInterval,
		MinBytes:       c.MinBytes,
		MaxBytes:       c.MaxBytes,
	}

	switch strings.ToLower(strings.TrimSpace(c.StartOffset)) {
	case "first":
		rc.StartOffset = kafka.FirstOffset
	default:
		rc.StartOffset = kafka.LastOffset
	}

	return rc
}
