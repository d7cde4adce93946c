package ports

import "github.com/Gunvolt24/hermes_receiver/internal/domain"

// ReceiverStatus — состояние получателя для /status.
type ReceiverStatus interface {
	Topic() domain.Topic
	Stopped() bool
}
