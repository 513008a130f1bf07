package relay

import "fmt"

const (
	errUnknownCadence = "unknown cadence '%s'"
	errNoInterval     = "interval cadence needs a positive interval, got %v"
)

// InputReadError is returned by Loop.Run when the source fails. The loop
// does not recover from it.
type InputReadError struct {
	Err error
}

func (e *InputReadError) Error() string {
	return fmt.Sprintf("input read failed: %v", e.Err)
}

func (e *InputReadError) Unwrap() error {
	return e.Err
}

// OutputError wraps a sink failure. It is logged and the loop carries on.
type OutputError struct {
	Err error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output failed: %v", e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}
