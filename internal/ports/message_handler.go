package ports

import (
	"context"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
)

// MessageHandler — получатель сообщений на стороне конвейера.
type MessageHandler interface {
	Handle(ctx context.Context, msg domain.Message) error
}
