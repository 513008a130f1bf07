package telemetry

import "fmt"

const (
	errUnknownTransport = "unknown telemetry transport '%s'"
	errBadDeviceKey     = "device key is not valid base64"
	errStatus           = "hub answered %s"
	errClosed           = "transport is closed"
)

// TransportError is returned when a message could not be handed to the
// hub. Nothing is retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("telemetry send failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
