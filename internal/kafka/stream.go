package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ports"
)

// Проверка, что Stream удовлетворяет интерфейсу порта.
var _ ports.Stream = (*Stream)(nil)

// Stream — один ридер топика с ограниченным ожиданием.
// Рассчитан на одного читателя; Close можно звать из другой горутины.
type Stream struct {
	parent  context.Context
	topic   string
	reader  reader
	timeout time.Duration

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newStream(parent context.Context, topic string, r reader, timeout time.Duration) *Stream {
	return &Stream{parent: parent, topic: topic, reader: r, timeout: timeout}
}

// Next — читает одну запись. Истечение таймаута → ports.ErrStreamTimeout,
// остановка коннектора или закрытый ридер → ErrConnectorClosed.
func (s *Stream) Next() (domain.RawRecord, error) {
	if s.parent.Err() != nil || s.closed.Load() {
		return domain.RawRecord{}, ErrConnectorClosed
	}

	ctx, cancel := context.WithTimeout(s.parent, s.timeout)
	defer cancel()

	msg, err := s.reader.ReadMessage(ctx)
	if err != nil {
		switch {
		case s.parent.Err() != nil, s.closed.Load(), errors.Is(err, io.EOF):
			return domain.RawRecord{}, fmt.Errorf("%w: %w", ErrConnectorClosed, err)
		case errors.Is(err, context.DeadlineExceeded):
			return domain.RawRecord{}, ports.ErrStreamTimeout
		default:
			return domain.RawRecord{}, fmt.Errorf("kafka read topic=%s: %w", s.topic, err)
		}
	}

	return domain.RawRecord{
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Topic:     msg.Topic,
		Key:       msg.Key,
		Value:     msg.Value,
		Time:      msg.Time,
	}, nil
}

// Close — закрывает ридер один раз.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.reader.Close()
	})
	return s.closeErr
}

// Topic — имя топика потока.
func (s *Stream) Topic() string { return s.topic }
