package wrapper

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ids"
)

// ErrMalformedEnvelope — байты не являются корректным конвертом для схемы топика.
var ErrMalformedEnvelope = errors.New("malformed envelope")

var api = sonic.ConfigStd

// envelope — JSON-конверт:
//
//	{"metadata":{"id":"...","timestamp":<unix ms>},"message":<json>}
type envelope struct {
	Metadata *envelopeMetadata `json:"metadata"`
	Message  RawJSON           `json:"message"`
}

type envelopeMetadata struct {
	ID        string `json:"id"`
	Timestamp *int64 `json:"timestamp"`
}

// RawJSON — JSON-значение без разбора; кодируется и декодируется как есть.
type RawJSON []byte

func (m RawJSON) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return m, nil
}

func (m *RawJSON) UnmarshalJSON(data []byte) error {
	if m == nil {
		return errors.New("wrapper.RawJSON: UnmarshalJSON on nil pointer")
	}
	*m = append((*m)[:0], data...)
	return nil
}

// JSONWrapper — конверт в формате JSON.
type JSONWrapper struct{}

// NewJSONWrapper — конструктор JSONWrapper.
func NewJSONWrapper() *JSONWrapper { return &JSONWrapper{} }

// Unwrap — достаёт полезную нагрузку и метаданные из JSON-конверта.
func (w *JSONWrapper) Unwrap(raw []byte) (domain.UnwrappedContent, error) {
	if len(raw) == 0 {
		return domain.UnwrappedContent{}, fmt.Errorf("%w: empty payload", ErrMalformedEnvelope)
	}

	var env envelope
	if err := api.Unmarshal(raw, &env); err != nil {
		return domain.UnwrappedContent{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if env.Metadata == nil || env.Metadata.ID == "" {
		return domain.UnwrappedContent{}, fmt.Errorf("%w: metadata.id is required", ErrMalformedEnvelope)
	}
	if env.Metadata.Timestamp == nil {
		return domain.UnwrappedContent{}, fmt.Errorf("%w: metadata.timestamp is required", ErrMalformedEnvelope)
	}
	if len(env.Message) == 0 || string(env.Message) == "null" {
		return domain.UnwrappedContent{}, fmt.Errorf("%w: message is required", ErrMalformedEnvelope)
	}

	return domain.UnwrappedContent{
		Content: []byte(env.Message),
		Metadata: domain.MessageMetadata{
			ID:        env.Metadata.ID,
			Timestamp: time.UnixMilli(*env.Metadata.Timestamp).UTC(),
		},
	}, nil
}

// Wrap — упаковывает JSON-содержимое в конверт. Пустой id заменяется на ULID.
func (w *JSONWrapper) Wrap(content []byte, id string, ts time.Time) ([]byte, error) {
	if !api.Valid(content) {
		return nil, fmt.Errorf("wrap: content is not valid json")
	}
	if id == "" {
		id = ids.NewMessageID(ts)
	}
	millis := ts.UnixMilli()
	return api.Marshal(envelope{
		Metadata: &envelopeMetadata{ID: id, Timestamp: &millis},
		Message:  RawJSON(content),
	})
}
