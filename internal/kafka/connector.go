package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/hermes_receiver/internal/ports"
)

// Проверка, что Connector удовлетворяет интерфейсу лог-клиента.
var _ ports.LogClient = (*Connector)(nil)

var (
	// ErrConnectorClosed — коннектор остановлен, потоки больше не читают.
	ErrConnectorClosed = errors.New("kafka connector closed")

	// ErrUnknownTopic — у топика нет партиций в метаданных кластера.
	ErrUnknownTopic = errors.New("unknown topic")
)

// reader — минимальный контракт над kafka.Reader,
// чтобы легко подменять его моками в тестах.
type reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Connector — лог-клиент поверх kafka-go: выдаёт потоки по топикам и гасит их разом.
type Connector struct {
	cfg        ConsumerConfig
	log        ports.Logger
	newReader  func(kafka.ReaderConfig) reader
	checkTopic func(ctx context.Context, topic string) error

	// ctx отменяется в Shutdown — все висящие чтения завершаются.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	streams []*Stream
	closed  bool

	closeOnce sync.Once
	closeErr  error
}

// NewConnector — конструктор. Потоки создаются только в Subscribe.
func NewConnector(cfg *ConsumerConfig, log ports.Logger) *Connector {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Connector{
		cfg:       cfg.withDefaults(),
		log:       log,
		newReader: func(rc kafka.ReaderConfig) reader { return kafka.NewReader(rc) },
		ctx:       ctx,
		cancel:    cancel,
	}
	c.checkTopic = c.lookupPartitions
	return c
}

// Subscribe — для каждого топика создаёт count ридеров в группе потребителей.
// При любой ошибке уже созданные в этом вызове ридеры закрываются.
func (c *Connector) Subscribe(topicCounts map[string]int) (map[string][]ports.Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrConnectorClosed
	}

	result := make(map[string][]ports.Stream, len(topicCounts))
	created := make([]*Stream, 0, len(topicCounts))

	fail := func(err error) (map[string][]ports.Stream, error) {
		for _, s := range created {
			_ = s.Close()
		}
		return nil, err
	}

	for topic, count := range topicCounts {
		if topic == "" {
			return fail(errors.New("subscribe: empty topic name"))
		}
		if count < 1 {
			return fail(fmt.Errorf("subscribe %s: stream count must be >= 1, got %d", topic, count))
		}
		if c.cfg.VerifyTopic {
			if err := c.checkTopic(c.ctx, topic); err != nil {
				return fail(fmt.Errorf("subscribe %s: %w", topic, err))
			}
		}

		for i := 0; i < count; i++ {
			s := newStream(c.ctx, topic, c.newReader(c.cfg.ReaderConfig(topic)), c.cfg.ReadTimeout)
			created = append(created, s)
			result[topic] = append(result[topic], s)
		}
		c.log.Infof(c.ctx, "kafka subscribed topic=%s streams=%d group_id=%s brokers=%v",
			topic, count, c.cfg.GroupID, c.cfg.Brokers)
	}

	c.streams = append(c.streams, created...)
	return result, nil
}

// Shutdown — отменяет все чтения и закрывает ридеры. Повторный вызов возвращает
// результат первого.
func (c *Connector) Shutdown() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		streams := c.streams
		c.streams = nil
		c.mu.Unlock()

		c.cancel()

		errs := make([]error, 0, len(streams))
		for _, s := range streams {
			if err := s.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close stream topic=%s: %w", s.topic, err))
			}
		}
		c.closeErr = errors.Join(errs...)
		c.log.Infof(context.Background(), "kafka connector stopped streams=%d", len(streams))
	})
	return c.closeErr
}

// lookupPartitions — проверка топика по метаданным первого доступного брокера.
func (c *Connector) lookupPartitions(ctx context.Context, topic string) error {
	if len(c.cfg.Brokers) == 0 {
		return errors.New("no brokers configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancel()

	var lastErr error
	for _, broker := range c.cfg.Brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		parts, err := conn.ReadPartitions(topic)
		_ = conn.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if len(parts) == 0 {
			return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
		}
		return nil
	}
	return fmt.Errorf("lookup partitions: %w", lastErr)
}
