package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ports/mocks"
	"github.com/Gunvolt24/hermes_receiver/internal/usecase"
)

const messageID = "m1"

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func sampleMessage() domain.Message {
	published := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return domain.Message{
		ID:          messageID,
		Partition:   2,
		Offset:      57,
		Topic:       "shop.orders",
		Content:     []byte("x"),
		PublishedAt: published,
		ReadAt:      published.Add(1500 * time.Millisecond),
	}
}

func TestHandle_CachesMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockMessageCache(ctrl)

	msg := sampleMessage()
	cache.EXPECT().Set(gomock.Any(), &msg).Return(nil)

	svc := usecase.NewMessageService(cache, noopLogger{})
	if err := svc.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandle_CacheSetWarnOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockMessageCache(ctrl)

	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("cache full"))

	svc := usecase.NewMessageService(cache, noopLogger{})
	if err := svc.Handle(context.Background(), sampleMessage()); err != nil {
		t.Fatalf("cache error must not fail handling, got %v", err)
	}
}

func TestHandle_NegativeLagAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockMessageCache(ctrl)
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

	msg := sampleMessage()
	msg.ReadAt = msg.PublishedAt.Add(-time.Second)

	svc := usecase.NewMessageService(cache, noopLogger{})
	if err := svc.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandle_MissingID(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockMessageCache(ctrl)
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Times(0)

	msg := sampleMessage()
	msg.ID = ""

	svc := usecase.NewMessageService(cache, noopLogger{})
	if err := svc.Handle(context.Background(), msg); !errors.Is(err, usecase.ErrMissingMessageID) {
		t.Fatalf("want ErrMissingMessageID, got %v", err)
	}
}

func TestGetMessage_HitAndMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockMessageCache(ctrl)

	msg := sampleMessage()
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), messageID).Return(&msg, true),
		cache.EXPECT().Get(gomock.Any(), "missing").Return(nil, false),
	)

	svc := usecase.NewMessageService(cache, noopLogger{})

	got, err := svc.GetMessage(context.Background(), messageID)
	if err != nil || got == nil || got.ID != messageID {
		t.Fatalf("expected hit, got err=%v, msg=%+v", err, got)
	}
	got, err = svc.GetMessage(context.Background(), "missing")
	if err != nil || got != nil {
		t.Fatalf("expected not found, got msg=%v, err=%+v", got, err)
	}
}

func TestRecentMessages_Proxy(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockMessageCache(ctrl)

	msg := sampleMessage()
	cache.EXPECT().Recent(gomock.Any(), 20, 5).Return([]*domain.Message{&msg})

	svc := usecase.NewMessageService(cache, noopLogger{})
	got, err := svc.RecentMessages(context.Background(), 20, 5)
	if err != nil || len(got) != 1 || got[0].ID != messageID {
		t.Fatalf("unexpected result: %+v err=%v", got, err)
	}
}
