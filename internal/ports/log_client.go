package ports

import (
	"errors"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
)

// ErrStreamTimeout — за отведённое время простоя записей не появилось.
// Ожидаемый исход, а не сбой: поток остаётся пригодным для следующего чтения.
var ErrStreamTimeout = errors.New("stream: no records within idle timeout")

// Stream — один поток чтения топика. Не рассчитан на конкурентных читателей.
type Stream interface {
	// Next блокируется до появления записи, истечения таймаута простоя
	// (ErrStreamTimeout) или остановки клиента.
	Next() (domain.RawRecord, error)
	// Close освобождает поток, не трогая остальные потоки клиента.
	Close() error
}

// LogClient — клиент партиционированного лога (подписка и остановка).
type LogClient interface {
	// Subscribe — topic → желаемое число потоков; возвращает topic → потоки.
	Subscribe(topicCounts map[string]int) (map[string][]Stream, error)
	// Shutdown освобождает все потоки клиента; заблокированные Next должны завершиться.
	Shutdown() error
}
