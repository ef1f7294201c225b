package oerror

import "fmt"

// SimError is an error raised by the simulation core outside of the frame loop, or produced from
// a recovered frame panic.
type SimError struct {
	Err string
}

// New returns a SimError with a formatted message.
func New(format string, args ...any) *SimError {
	return &SimError{Err: fmt.Sprintf(format, args...)}
}

func (e *SimError) Error() string {
	return e.Err
}
