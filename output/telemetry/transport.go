// Package telemetry reports gamepad state to a cloud device hub.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Transport delivers one serialized message to the hub.
type Transport interface {
	Send(ctx context.Context, payload []byte) error
	Close() error
}

// Transport names accepted by NewTransport.
const (
	TransportAMQP = "amqp"
	TransportHTTP = "http"
	TransportLog  = "log"
)

// Options configure NewTransport.
type Options struct {
	Credentials Credentials
	// TokenTTL is the lifetime of each SAS token. Zero means one hour.
	TokenTTL time.Duration
	// Timeout bounds one HTTP request. Zero means ten seconds.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// NewTransport picks the transport by name at start-up. Network
// transports connect on the first send, so an unreachable hub surfaces as
// a send error rather than a start-up failure.
func NewTransport(name string, opts Options) (Transport, error) {
	switch name {
	case TransportAMQP:
		return newAMQPTransport(opts.Credentials, newTokenSource(opts.Credentials, opts.TokenTTL), dialGoAMQP), nil
	case TransportHTTP:
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		return newHTTPTransport("https://"+opts.Credentials.Host(), opts.Credentials,
			newTokenSource(opts.Credentials, opts.TokenTTL), &http.Client{Timeout: timeout}), nil
	case TransportLog:
		return NewLogTransport(opts.Logger), nil
	default:
		return nil, errors.Errorf(errUnknownTransport, name)
	}
}
