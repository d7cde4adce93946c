package ports

import "time"

// TimerScope — открытый замер; ObserveDuration фиксирует прошедшее время.
type TimerScope interface {
	ObserveDuration() time.Duration
}

// ReadTimer — регистратор длительности попыток чтения.
type ReadTimer interface {
	Time() TimerScope
}
