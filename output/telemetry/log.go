package telemetry

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogTransport writes messages to the log instead of a hub.
type LogTransport struct {
	log logrus.FieldLogger
}

func NewLogTransport(log logrus.FieldLogger) *LogTransport {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogTransport{log: log}
}

func (t *LogTransport) Send(ctx context.Context, payload []byte) error {
	t.log.WithField("payload", string(payload)).Info("telemetry")
	return nil
}

func (t *LogTransport) Close() error {
	return nil
}
