package domain

import "time"

// Message — нормализованное сообщение, которое получатель отдаёт конвейеру.
// Создаётся один раз на каждый успешный Next() и дальше не изменяется.
type Message struct {
	ID          string    // id из метаданных конверта
	Offset      int64     // позиция в партиции (назначается брокером)
	Partition   int       // номер партиции
	Topic       string    // имя топика, как его вернул брокер
	Content     []byte    // полезная нагрузка после распаковки конверта
	PublishedAt time.Time // время создания из конверта
	ReadAt      time.Time // время чтения по локальным часам получателя
}

// RawRecord — запись в том виде, в каком её отдаёт лог-клиент.
type RawRecord struct {
	Partition int
	Offset    int64
	Topic     string
	Key       []byte
	Value     []byte
	Time      time.Time
}
