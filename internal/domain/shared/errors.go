package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// TransportError wraps a failed exchange with the game server. Transport
// failures are never fatal: the tick loop skips the cycle and retries with
// fresh state on the next one.
type TransportError struct {
	*DomainError
	Op string // "fetch_state" or "submit_actions"
}

func NewTransportError(op, message string) *TransportError {
	return &TransportError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", op, message)},
		Op:          op,
	}
}
