package receiver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ports"
)

// Проверка, что Receiver удовлетворяет интерфейсу порта.
var _ ports.MessageReceiver = (*Receiver)(nil)

// Config — параметры получателя, приходящие из конфигурации.
type Config struct {
	StreamCount int // желаемое число потоков для топика, >= 1
}

// Receiver — получатель сообщений одного топика поверх одного потока лог-клиента.
//
// Один Receiver ⇒ один топик ⇒ один поток на всё время жизни.
// Next/Receive НЕ безопасны для конкурентного вызова: поток принадлежит одному читателю.
// Stop можно звать из другой горутины — заблокированное чтение завершится ошибкой.
type Receiver struct {
	topic   domain.Topic
	client  ports.LogClient
	stream  ports.Stream
	wrapper ports.ContentWrapper
	timer   ports.ReadTimer
	clock   ports.Clock
	log     ports.Logger

	stopped  atomic.Bool
	stopOnce sync.Once
	stopErr  error
}

// New — подписывается на топик и забирает первый поток.
// Если поток не получен — ошибка конструктора (ErrNoStream), получатель не создаётся.
func New(
	topic domain.Topic,
	client ports.LogClient,
	wrapper ports.ContentWrapper,
	timer ports.ReadTimer,
	clock ports.Clock,
	log ports.Logger,
	cfg Config,
) (*Receiver, error) {
	if cfg.StreamCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStreamCount, cfg.StreamCount)
	}

	name := topic.QualifiedName()
	streams, err := client.Subscribe(map[string]int{name: cfg.StreamCount})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrNoStream, name, err)
	}
	if len(streams[name]) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoStream, name)
	}

	// Читаем только из первого потока; лишние закрываем сразу,
	// чтобы они не держали партиции без чтения.
	for i, s := range streams[name][1:] {
		if cErr := s.Close(); cErr != nil {
			log.Warnf(context.Background(), "close surplus stream #%d topic=%s: %v", i+1, name, cErr)
		}
	}

	return &Receiver{
		topic:   topic,
		client:  client,
		stream:  streams[name][0],
		wrapper: wrapper,
		timer:   timer,
		clock:   clock,
		log:     log,
	}, nil
}

// Receive — одна попытка чтения. Каждый вызов даёт ровно один замер длительности,
// включая таймауты и ошибки.
func (r *Receiver) Receive() (res Result) {
	scope := r.timer.Time()
	defer scope.ObserveDuration()

	defer func() {
		if p := recover(); p != nil {
			res = failed(fmt.Errorf("panic while receiving: %v", p))
		}
	}()

	if r.stopped.Load() {
		return failed(ErrReceiverStopped)
	}

	// Остановка во время чтения важнее причины, с которой вернулся поток (в т.ч. таймаута).
	rec, err := r.stream.Next()
	switch {
	case err != nil && r.stopped.Load():
		return failed(fmt.Errorf("%w: %w", ErrReceiverStopped, err))
	case errors.Is(err, ports.ErrStreamTimeout):
		return timedOut()
	case err != nil:
		return failed(fmt.Errorf("read stream: %w", err))
	}

	unwrapped, err := r.wrapper.Unwrap(rec.Value, r.topic)
	if err != nil {
		return failed(fmt.Errorf("unwrap partition=%d offset=%d: %w", rec.Partition, rec.Offset, err))
	}

	return received(domain.Message{
		ID:          unwrapped.Metadata.ID,
		Offset:      rec.Offset,
		Partition:   rec.Partition,
		Topic:       rec.Topic,
		Content:     unwrapped.Content,
		PublishedAt: unwrapped.Metadata.Timestamp,
		ReadAt:      r.clock.Now(),
	})
}

// Next — Receive в форме (Message, error):
// TimedOut → ErrReceiveTimeout, Failed → *InternalProcessingError.
func (r *Receiver) Next() (domain.Message, error) {
	res := r.Receive()
	switch res.Kind {
	case KindReceived:
		return res.Message, nil
	case KindTimedOut:
		return domain.Message{}, ErrReceiveTimeout
	default:
		return domain.Message{}, internalError("message receive", res.Err)
	}
}

// Stop — останавливает лог-клиент. Ошибка остановки не глотается.
// Повторный вызов возвращает результат первого.
func (r *Receiver) Stop() error {
	r.stopOnce.Do(func() {
		r.stopped.Store(true)
		if err := r.client.Shutdown(); err != nil {
			r.stopErr = internalError("receiver stop", err)
		}
	})
	return r.stopErr
}

// Topic — топик, к которому привязан получатель.
func (r *Receiver) Topic() domain.Topic { return r.topic }

// Stopped — был ли вызван Stop.
func (r *Receiver) Stopped() bool { return r.stopped.Load() }
