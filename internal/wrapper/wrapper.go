package wrapper

import (
	"errors"
	"fmt"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ports"
)

// Проверка, что MessageContentWrapper удовлетворяет интерфейсу порта.
var _ ports.ContentWrapper = (*MessageContentWrapper)(nil)

// ErrUnsupportedContentType — для типа содержимого топика нет распаковщика.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// MessageContentWrapper — выбирает формат конверта по типу содержимого топика.
type MessageContentWrapper struct {
	json *JSONWrapper
}

func NewMessageContentWrapper() *MessageContentWrapper {
	return &MessageContentWrapper{json: NewJSONWrapper()}
}

// Unwrap — распаковка по схеме, объявленной для топика.
func (w *MessageContentWrapper) Unwrap(raw []byte, topic domain.Topic) (domain.UnwrappedContent, error) {
	switch topic.ContentType {
	case domain.ContentTypeJSON, "":
		content, err := w.json.Unwrap(raw)
		if err != nil {
			return domain.UnwrappedContent{}, fmt.Errorf("topic %s: %w", topic.QualifiedName(), err)
		}
		return content, nil
	default:
		return domain.UnwrappedContent{}, fmt.Errorf("%w: %s (topic %s)", ErrUnsupportedContentType, topic.ContentType, topic.QualifiedName())
	}
}

// JSON — JSON-упаковщик (нужен издателям и утилитам).
func (w *MessageContentWrapper) JSON() *JSONWrapper { return w.json }
