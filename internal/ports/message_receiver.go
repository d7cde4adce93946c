package ports

import "github.com/Gunvolt24/hermes_receiver/internal/domain"

// MessageReceiver — контракт получателя: Next/Stop.
type MessageReceiver interface {
	Next() (domain.Message, error)
	Stop() error
}
