package domain

import "time"

// MessageMetadata — метаданные, которые издатель кладёт в конверт.
type MessageMetadata struct {
	ID        string
	Timestamp time.Time
}
