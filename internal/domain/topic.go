package domain

import "strings"

// ContentType — формат конверта, объявленный для топика.
type ContentType string

const (
	ContentTypeJSON ContentType = "JSON"
	ContentTypeAvro ContentType = "AVRO"
)

// ParseContentType нормализует строку из конфигурации; пустое значение → JSON.
func ParseContentType(s string) ContentType {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return ContentTypeJSON
	}
	return ContentType(v)
}

// Topic — описание топика: группа, имя и тип содержимого.
type Topic struct {
	Group       string
	Name        string
	ContentType ContentType
}

// QualifiedName — полное имя топика в брокере: "<group>.<name>".
// Без группы возвращается просто имя.
func (t Topic) QualifiedName() string {
	if t.Group == "" {
		return t.Name
	}
	return t.Group + "." + t.Name
}

// UnwrappedContent — результат распаковки конверта.
type UnwrappedContent struct {
	Content  []byte
	Metadata MessageMetadata
}
