package consumer

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ports"
	"github.com/Gunvolt24/hermes_receiver/internal/receiver"
	"github.com/Gunvolt24/hermes_receiver/internal/wrapper"
	"github.com/Gunvolt24/hermes_receiver/pkg/ctxmeta"
	"github.com/Gunvolt24/hermes_receiver/pkg/metrics"
)

const tracerName = "github.com/Gunvolt24/hermes_receiver/internal/consumer"

// Проверка, что Pipeline удовлетворяет интерфейсу верхнего уровня (порт приложения).
var _ ports.MessageConsumer = (*Pipeline)(nil)

type Config struct {
	Topic         string        // метка для метрик и спанов
	HandleTimeout time.Duration // таймаут одного вызова обработчика
	RetryInitial  time.Duration // первая пауза после внутренней ошибки
	RetryMax      time.Duration // верхняя граница паузы
}

// Pipeline — цикл чтения поверх получателя: опрос, обработка, политика ошибок.
// Получатель сам ничего не повторяет; паузы и эскалация живут здесь.
type Pipeline struct {
	receiver ports.MessageReceiver
	handler  ports.MessageHandler
	log      ports.Logger
	tracer   trace.Tracer

	topic         string
	handleTimeout time.Duration
	retryInitial  time.Duration
	retryMax      time.Duration
	jitterRand    *rand.Rand

	closeOnce sync.Once
	closeErr  error
}

func NewPipeline(rcv ports.MessageReceiver, handler ports.MessageHandler, log ports.Logger, cfg Config) *Pipeline {
	// Параметры по умолчанию (если не заданы в конфиге)
	ht := cfg.HandleTimeout
	if ht <= 0 {
		ht = 5 * time.Second
	}

	rInit := cfg.RetryInitial
	if rInit <= 0 {
		rInit = 1 * time.Second
	}

	rMax := cfg.RetryMax
	if rMax <= 0 {
		rMax = 30 * time.Second
	}

	return &Pipeline{
		receiver:      rcv,
		handler:       handler,
		log:           log,
		tracer:        otel.Tracer(tracerName),
		topic:         cfg.Topic,
		handleTimeout: ht,
		retryInitial:  rInit,
		retryMax:      rMax,
		jitterRand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run — основной цикл:
// 1) сообщение → обработчик (ошибка обработчика не останавливает цикл);
// 2) ErrReceiveTimeout → просто опрашиваем снова;
// 3) битый конверт → лог и следующее сообщение без паузы;
// 4) прочие внутренние ошибки → лог и пауза с backoff;
// 5) отмена ctx → Stop получателя, заблокированное чтение завершается, Run возвращает ctx.Err().
func (p *Pipeline) Run(ctx context.Context) error {
	p.log.Infof(ctx, "consumer pipeline started topic=%s", p.topic)

	done := make(chan struct{})
	defer close(done)
	go p.watch(ctx, done)

	retry := p.retryInitial

	for {
		msg, err := p.receiver.Next()
		if err == nil {
			retry = p.retryInitial
			metrics.MessagesReceived.WithLabelValues(p.topic).Inc()
			p.handle(ctx, msg)
			continue
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch {
		case errors.Is(err, receiver.ErrReceiveTimeout):
			metrics.ReceiveTimeouts.WithLabelValues(p.topic).Inc()
			continue
		case errors.Is(err, receiver.ErrReceiverStopped):
			// Остановлен через Close — дальше читать нечего.
			p.log.Infof(ctx, "consumer pipeline stopped topic=%s", p.topic)
			return err
		}

		metrics.ReceiveFailures.WithLabelValues(p.topic).Inc()

		if errors.Is(err, wrapper.ErrMalformedEnvelope) {
			p.log.Warnf(ctx, "malformed envelope: %v (skipped)", err)
			continue
		}

		sleep := p.withJitterEqual(retry)
		p.log.Errorf(ctx, "receive failed: %v (will retry in %s)", err, sleep)
		if !p.sleepWithBackoff(ctx, sleep) {
			return ctx.Err()
		}
		retry = p.nextBackoff(retry)
	}
}

// Close — останавливает получатель один раз. Вызывается при остановке приложения
// и из watch при отмене контекста.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.receiver.Stop()
	})
	return p.closeErr
}

// watch останавливает получатель по отмене ctx, чтобы прервать блокирующий Next.
func (p *Pipeline) watch(ctx context.Context, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		if err := p.Close(); err != nil {
			p.log.Warnf(context.Background(), "receiver stop: %v", err)
		}
	case <-done:
	}
}

// handle — обработка одного сообщения в собственном спане; id сообщения попадает в логи.
func (p *Pipeline) handle(ctx context.Context, msg domain.Message) {
	ctx = ctxmeta.WithMessageID(ctx, msg.ID)
	ctx, span := p.tracer.Start(ctx, "receive "+p.topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.String("messaging.message.id", msg.ID),
			attribute.Int("messaging.kafka.destination.partition", msg.Partition),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
		),
	)
	defer span.End()

	hctx, cancel := context.WithTimeout(ctx, p.handleTimeout)
	err := p.handler.Handle(hctx, msg)
	cancel()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handle failed")
		metrics.MessagesHandled.WithLabelValues(p.topic, "error").Inc()
		p.log.Warnf(ctx, "handle failed partition=%d offset=%d: %v", msg.Partition, msg.Offset, err)
		return
	}
	metrics.MessagesHandled.WithLabelValues(p.topic, "ok").Inc()
}
