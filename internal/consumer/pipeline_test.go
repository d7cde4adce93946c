package consumer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ports/mocks"
	"github.com/Gunvolt24/hermes_receiver/internal/receiver"
	"github.com/Gunvolt24/hermes_receiver/internal/wrapper"
	"github.com/Gunvolt24/hermes_receiver/pkg/ctxmeta"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

func newTestPipeline(r *mocks.MockMessageReceiver, h *mocks.MockMessageHandler) (*Pipeline, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return &Pipeline{
		receiver:      r,
		handler:       h,
		log:           nopLogger{},
		tracer:        tp.Tracer("test"),
		topic:         "shop.orders",
		handleTimeout: 50 * time.Millisecond,
		retryInitial:  5 * time.Millisecond,
		retryMax:      10 * time.Millisecond,
		jitterRand:    rand.New(rand.NewSource(1)),
	}, sr
}

// runAsync запускает Pipeline.Run в отдельной горутине и возвращает канал с ошибкой.
func runAsync(ctx context.Context, p *Pipeline) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()
	return errCh
}

func stoppedErr() error {
	return &receiver.InternalProcessingError{Op: "message receive", Err: receiver.ErrReceiverStopped}
}

// expectStop — Stop закрывает канал, на котором висит «заблокированное» чтение.
func expectStop(r *mocks.MockMessageReceiver) <-chan struct{} {
	stopped := make(chan struct{})
	r.EXPECT().Stop().DoAndReturn(func() error {
		close(stopped)
		return nil
	}).Times(1)
	return stopped
}

func blockingNext(stopped <-chan struct{}) func() (domain.Message, error) {
	return func() (domain.Message, error) {
		<-stopped
		return domain.Message{}, stoppedErr()
	}
}

func waitRun(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Run to stop")
		return nil
	}
}

// Сообщение уходит в обработчик с id в контексте и спаном; отмена ctx прерывает чтение.
func TestRun_HandlesMessage_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockMessageReceiver(ctrl)
	h := mocks.NewMockMessageHandler(ctrl)
	stopped := expectStop(r)

	msg := domain.Message{ID: "m1", Partition: 2, Offset: 57, Topic: "shop.orders", Content: []byte("x")}
	handled := make(chan struct{})

	gomock.InOrder(
		r.EXPECT().Next().Return(msg, nil),
		r.EXPECT().Next().DoAndReturn(blockingNext(stopped)),
	)
	h.EXPECT().Handle(gomock.Any(), msg).DoAndReturn(func(ctx context.Context, _ domain.Message) error {
		id, ok := ctxmeta.MessageIDFromContext(ctx)
		if !ok || id != "m1" {
			t.Errorf("message id not in context: %q", id)
		}
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("handler context must carry a deadline")
		}
		close(handled)
		return nil
	})

	p, sr := newTestPipeline(r, h)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := runAsync(ctx, p)

	<-handled
	cancel()

	require.ErrorIs(t, waitRun(t, errCh), context.Canceled)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "receive shop.orders", spans[0].Name())
	require.Equal(t, codes.Unset, spans[0].Status().Code)
}

// Таймауты не считаются ошибкой: опрос продолжается без пауз и без вызова обработчика.
func TestRun_TimeoutsKeepPolling(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockMessageReceiver(ctrl)
	h := mocks.NewMockMessageHandler(ctrl)
	stopped := expectStop(r)

	handled := make(chan struct{})
	gomock.InOrder(
		r.EXPECT().Next().Return(domain.Message{}, receiver.ErrReceiveTimeout).Times(3),
		r.EXPECT().Next().Return(domain.Message{ID: "after-idle"}, nil),
		r.EXPECT().Next().DoAndReturn(blockingNext(stopped)),
	)
	h.EXPECT().Handle(gomock.Any(), domain.Message{ID: "after-idle"}).DoAndReturn(
		func(context.Context, domain.Message) error { close(handled); return nil })

	p, _ := newTestPipeline(r, h)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := runAsync(ctx, p)

	<-handled
	cancel()
	require.ErrorIs(t, waitRun(t, errCh), context.Canceled)
}

// Битый конверт пропускается, ошибка обработчика помечает спан, цикл продолжается.
func TestRun_MalformedSkipped_HandlerErrorRecorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockMessageReceiver(ctrl)
	h := mocks.NewMockMessageHandler(ctrl)
	stopped := expectStop(r)

	malformed := &receiver.InternalProcessingError{
		Op:  "message receive",
		Err: fmt.Errorf("unwrap partition=0 offset=3: %w", wrapper.ErrMalformedEnvelope),
	}
	handled := make(chan struct{})
	gomock.InOrder(
		r.EXPECT().Next().Return(domain.Message{}, malformed),
		r.EXPECT().Next().Return(domain.Message{ID: "m2"}, nil),
		r.EXPECT().Next().DoAndReturn(blockingNext(stopped)),
	)
	h.EXPECT().Handle(gomock.Any(), domain.Message{ID: "m2"}).DoAndReturn(
		func(context.Context, domain.Message) error {
			defer close(handled)
			return errors.New("downstream unavailable")
		})

	p, sr := newTestPipeline(r, h)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := runAsync(ctx, p)

	<-handled
	cancel()
	require.ErrorIs(t, waitRun(t, errCh), context.Canceled)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
}

// Сбой транспорта → пауза и повтор; следующий успешный Next сбрасывает backoff.
func TestRun_TransportFailure_BacksOffAndRecovers(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockMessageReceiver(ctrl)
	h := mocks.NewMockMessageHandler(ctrl)
	stopped := expectStop(r)

	transport := &receiver.InternalProcessingError{Op: "message receive", Err: errors.New("broker down")}
	handled := make(chan struct{})
	gomock.InOrder(
		r.EXPECT().Next().Return(domain.Message{}, transport).Times(2),
		r.EXPECT().Next().Return(domain.Message{ID: "m3"}, nil),
		r.EXPECT().Next().DoAndReturn(blockingNext(stopped)),
	)
	h.EXPECT().Handle(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.Message) error { close(handled); return nil })

	p, _ := newTestPipeline(r, h)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := runAsync(ctx, p)

	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("pipeline did not recover after transport failures")
	}
	cancel()
	require.ErrorIs(t, waitRun(t, errCh), context.Canceled)
}

// Close без отмены ctx: Run видит остановленный получатель и выходит с ErrReceiverStopped.
func TestRun_ExternalClose_ReturnsStopped(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockMessageReceiver(ctrl)
	h := mocks.NewMockMessageHandler(ctrl)
	stopped := expectStop(r)

	r.EXPECT().Next().DoAndReturn(blockingNext(stopped))

	p, _ := newTestPipeline(r, h)
	errCh := runAsync(context.Background(), p)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, p.Close())

	err := waitRun(t, errCh)
	require.ErrorIs(t, err, receiver.ErrReceiverStopped)
	require.True(t, receiver.IsInternal(err))
}

// Close останавливает получатель ровно один раз и повторяет первую ошибку.
func TestClose_Once(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockMessageReceiver(ctrl)
	h := mocks.NewMockMessageHandler(ctrl)

	stopErr := &receiver.InternalProcessingError{Op: "receiver stop", Err: errors.New("close reader")}
	r.EXPECT().Stop().Return(stopErr).Times(1)

	p, _ := newTestPipeline(r, h)
	require.ErrorIs(t, p.Close(), stopErr)
	require.ErrorIs(t, p.Close(), stopErr)
}

func TestNewPipeline_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := NewPipeline(mocks.NewMockMessageReceiver(ctrl), mocks.NewMockMessageHandler(ctrl), nopLogger{}, Config{Topic: "t"})

	require.Equal(t, 5*time.Second, p.handleTimeout)
	require.Equal(t, time.Second, p.retryInitial)
	require.Equal(t, 30*time.Second, p.retryMax)
	require.NotNil(t, p.tracer)
}
