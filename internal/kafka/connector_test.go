package kafka

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/hermes_receiver/internal/kafka/mocks"
	"github.com/Gunvolt24/hermes_receiver/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// newTestConnector — коннектор, который отдаёт ридеры из readers по очереди.
func newTestConnector(t *testing.T, verify bool, readers ...reader) *Connector {
	t.Helper()
	c := NewConnector(&ConsumerConfig{
		Brokers:     []string{"b:9092"},
		GroupID:     "g1",
		ReadTimeout: 20 * time.Millisecond,
		VerifyTopic: verify,
	}, nopLogger{})

	next := 0
	c.newReader = func(kafka.ReaderConfig) reader {
		if next >= len(readers) {
			t.Fatalf("unexpected reader #%d", next)
		}
		r := readers[next]
		next++
		return r
	}
	c.checkTopic = func(context.Context, string) error { return nil }
	return c
}

// blockUntilDone — ReadMessage, висящий до отмены контекста.
func blockUntilDone(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func TestSubscribe_CreatesRequestedStreams(t *testing.T) {
	ctrl := gomock.NewController(t)
	r1, r2 := mocks.NewMockreader(ctrl), mocks.NewMockreader(ctrl)

	c := newTestConnector(t, false, r1, r2)
	got, err := c.Subscribe(map[string]int{"shop.orders": 2})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if len(got["shop.orders"]) != 2 {
		t.Fatalf("want 2 streams, got %d", len(got["shop.orders"]))
	}

	r1.EXPECT().Close().Return(nil)
	r2.EXPECT().Close().Return(nil)
	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestSubscribe_UnknownTopic_Fails(t *testing.T) {
	c := newTestConnector(t, true)
	c.checkTopic = func(_ context.Context, topic string) error {
		return ErrUnknownTopic
	}

	_, err := c.Subscribe(map[string]int{"missing.topic": 1})
	if !errors.Is(err, ErrUnknownTopic) {
		t.Fatalf("want ErrUnknownTopic, got %v", err)
	}
}

func TestSubscribe_InvalidInput(t *testing.T) {
	c := newTestConnector(t, false)

	if _, err := c.Subscribe(map[string]int{"": 1}); err == nil {
		t.Fatalf("empty topic must fail")
	}
	if _, err := c.Subscribe(map[string]int{"t": 0}); err == nil {
		t.Fatalf("zero stream count must fail")
	}
}

func TestSubscribe_AfterShutdown(t *testing.T) {
	c := newTestConnector(t, false)
	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if _, err := c.Subscribe(map[string]int{"t": 1}); !errors.Is(err, ErrConnectorClosed) {
		t.Fatalf("want ErrConnectorClosed, got %v", err)
	}
}

func TestStreamNext_MapsRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	r.EXPECT().ReadMessage(gomock.Any()).Return(kafka.Message{
		Topic: "shop.orders", Partition: 2, Offset: 57,
		Key: []byte("k"), Value: []byte("v"), Time: ts,
	}, nil)

	c := newTestConnector(t, false, r)
	streams, err := c.Subscribe(map[string]int{"shop.orders": 1})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	rec, err := streams["shop.orders"][0].Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Partition != 2 || rec.Offset != 57 || rec.Topic != "shop.orders" ||
		string(rec.Value) != "v" || string(rec.Key) != "k" || !rec.Time.Equal(ts) {
		t.Fatalf("record mismatch: %+v", rec)
	}
}

// Простой без записей → ErrStreamTimeout; поток остаётся рабочим.
func TestStreamNext_IdleTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)

	gomock.InOrder(
		r.EXPECT().ReadMessage(gomock.Any()).DoAndReturn(blockUntilDone),
		r.EXPECT().ReadMessage(gomock.Any()).Return(kafka.Message{Offset: 1, Value: []byte("v")}, nil),
	)

	c := newTestConnector(t, false, r)
	streams, _ := c.Subscribe(map[string]int{"t": 1})
	s := streams["t"][0]

	if _, err := s.Next(); !errors.Is(err, ports.ErrStreamTimeout) {
		t.Fatalf("want ErrStreamTimeout, got %v", err)
	}
	if _, err := s.Next(); err != nil {
		t.Fatalf("stream must stay usable after timeout, got %v", err)
	}
}

func TestStreamNext_TransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	brokerErr := errors.New("broker not available")
	r.EXPECT().ReadMessage(gomock.Any()).Return(kafka.Message{}, brokerErr)

	c := newTestConnector(t, false, r)
	streams, _ := c.Subscribe(map[string]int{"t": 1})

	_, err := streams["t"][0].Next()
	if !errors.Is(err, brokerErr) || errors.Is(err, ports.ErrStreamTimeout) {
		t.Fatalf("want wrapped transport error, got %v", err)
	}
}

// Shutdown из другой горутины прерывает висящее чтение.
func TestShutdown_UnblocksNext(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)

	c := NewConnector(&ConsumerConfig{Brokers: []string{"b:9092"}, ReadTimeout: time.Minute}, nopLogger{})
	c.newReader = func(kafka.ReaderConfig) reader { return r }

	started := make(chan struct{})
	r.EXPECT().ReadMessage(gomock.Any()).DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
		close(started)
		return blockUntilDone(ctx)
	})
	r.EXPECT().Close().Return(nil).Times(1)

	streams, err := c.Subscribe(map[string]int{"t": 1})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := streams["t"][0].Next()
		errCh <- err
	}()

	<-started
	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrConnectorClosed) {
			t.Fatalf("want ErrConnectorClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Next did not return after Shutdown")
	}

	// Повторное чтение и повторный Shutdown не трогают ридер.
	if _, err := streams["t"][0].Next(); !errors.Is(err, ErrConnectorClosed) {
		t.Fatalf("want ErrConnectorClosed after shutdown, got %v", err)
	}
	if err := c.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}

func TestShutdown_JoinsCloseErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	r1, r2 := mocks.NewMockreader(ctrl), mocks.NewMockreader(ctrl)
	closeErr := errors.New("close failed")
	r1.EXPECT().Close().Return(closeErr)
	r2.EXPECT().Close().Return(nil)

	c := newTestConnector(t, false, r1, r2)
	if _, err := c.Subscribe(map[string]int{"t": 2}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := c.Shutdown(); !errors.Is(err, closeErr) {
		t.Fatalf("want joined close error, got %v", err)
	}
}

func TestStreamNext_ClosedReaderEOF(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	r.EXPECT().ReadMessage(gomock.Any()).Return(kafka.Message{}, io.EOF)

	c := newTestConnector(t, false, r)
	streams, _ := c.Subscribe(map[string]int{"t": 1})

	if _, err := streams["t"][0].Next(); !errors.Is(err, ErrConnectorClosed) {
		t.Fatalf("want ErrConnectorClosed on EOF, got %v", err)
	}
}
