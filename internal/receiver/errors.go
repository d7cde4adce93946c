package receiver

import (
	"errors"
	"fmt"
)

var (
	// ErrReceiveTimeout — сообщений нет в пределах таймаута простоя; нужно просто опросить ещё раз.
	ErrReceiveTimeout = errors.New("no messages received")

	// ErrReceiverStopped — чтение после Stop().
	ErrReceiverStopped = errors.New("receiver stopped")

	// ErrNoStream — лог-клиент не выдал поток для топика; получатель не создаётся.
	ErrNoStream = errors.New("no stream for topic")

	// ErrInvalidStreamCount — в конфигурации число потоков меньше 1.
	ErrInvalidStreamCount = errors.New("stream count must be >= 1")
)

// InternalProcessingError — любой сбой, кроме таймаута: транспорт, битый конверт,
// паника коллаборатора, использование после остановки, ошибка остановки.
// Конвейер логирует/эскалирует такие ошибки, а не повторяет молча.
type InternalProcessingError struct {
	Op  string
	Err error
}

func (e *InternalProcessingError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *InternalProcessingError) Unwrap() error { return e.Err }

func internalError(op string, err error) *InternalProcessingError {
	return &InternalProcessingError{Op: op, Err: err}
}

// IsInternal — true, если в цепочке есть *InternalProcessingError.
func IsInternal(err error) bool {
	var ipe *InternalProcessingError
	return errors.As(err, &ipe)
}
