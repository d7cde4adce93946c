package receiver

import "github.com/Gunvolt24/hermes_receiver/internal/domain"

// Kind — исход одной попытки чтения.
type Kind int

const (
	KindReceived Kind = iota
	KindTimedOut
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindReceived:
		return "received"
	case KindTimedOut:
		return "timed_out"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result — Received(Message) | TimedOut | Failed(cause).
// Таймаут — обычный исход, без ошибок-исключений.
type Result struct {
	Kind    Kind
	Message domain.Message
	Err     error
}

func received(msg domain.Message) Result { return Result{Kind: KindReceived, Message: msg} }
func timedOut() Result                   { return Result{Kind: KindTimedOut} }
func failed(err error) Result            { return Result{Kind: KindFailed, Err: err} }
