package ports

import (
	"context"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
)

type MessageReadService interface {
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
	RecentMessages(ctx context.Context, limit, offset int) ([]*domain.Message, error)
}
