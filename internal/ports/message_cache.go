package ports

import (
	"context"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
)

// MessageCache — недавно полученные сообщения (для просмотра через HTTP).
type MessageCache interface {
	Get(ctx context.Context, id string) (*domain.Message, bool)
	Set(ctx context.Context, msg *domain.Message) error
	Recent(ctx context.Context, limit, offset int) []*domain.Message
}
