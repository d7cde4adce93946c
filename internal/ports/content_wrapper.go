package ports

import "github.com/Gunvolt24/hermes_receiver/internal/domain"

// ContentWrapper — распаковка конверта по схеме, объявленной для топика.
type ContentWrapper interface {
	Unwrap(raw []byte, topic domain.Topic) (domain.UnwrappedContent, error)
}
