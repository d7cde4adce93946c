package usecase

import (
	"context"
	"errors"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ports"
)

// ErrMissingMessageID — сообщение без id нельзя ни залогировать осмысленно, ни найти потом.
var ErrMissingMessageID = errors.New("message without id")

var (
	_ ports.MessageHandler     = (*MessageService)(nil)
	_ ports.MessageReadService = (*MessageService)(nil)
)

// MessageService — обработчик по умолчанию для конвейера и источник данных для HTTP:
// логирует полученное сообщение и запоминает его в кэше последних сообщений.
type MessageService struct {
	cache ports.MessageCache
	log   ports.Logger
}

func NewMessageService(cache ports.MessageCache, log ports.Logger) *MessageService {
	return &MessageService{cache: cache, log: log}
}

// Handle — лаг считается как ReadAt - PublishedAt; отрицательный лаг означает расхождение часов
// продюсера и потребителя, сообщение всё равно принимается.
func (s *MessageService) Handle(ctx context.Context, msg domain.Message) error {
	if msg.ID == "" {
		s.log.Warnf(ctx, "message without id partition=%d offset=%d", msg.Partition, msg.Offset)
		return ErrMissingMessageID
	}

	lag := msg.ReadAt.Sub(msg.PublishedAt)
	if lag < 0 {
		s.log.Warnf(ctx, "negative lag=%s partition=%d offset=%d (clock skew?)", lag, msg.Partition, msg.Offset)
	}
	s.log.Infof(ctx, "message received topic=%s partition=%d offset=%d size=%d lag=%s",
		msg.Topic, msg.Partition, msg.Offset, len(msg.Content), lag)

	if err := s.cache.Set(ctx, &msg); err != nil {
		s.log.Warnf(ctx, "cache.Set failed id=%s err=%v", msg.ID, err)
	}
	return nil
}

// GetMessage — (nil, nil), если сообщения нет в кэше (не было или вытеснено).
func (s *MessageService) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	if msg, found := s.cache.Get(ctx, id); found {
		return msg, nil
	}
	s.log.Infof(ctx, "cache miss for message=%s", id)
	return nil, nil
}

// RecentMessages — пагинация уже валидирована на верхнем уровне.
func (s *MessageService) RecentMessages(ctx context.Context, limit, offset int) ([]*domain.Message, error) {
	return s.cache.Recent(ctx, limit, offset), nil
}
