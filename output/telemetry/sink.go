package telemetry

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/doingharm/gamepad-relay/controller"
)

// Sink serializes snapshots and sends them, one message per dispatch.
type Sink struct {
	transport Transport
	deviceID  string
	version   string
	log       logrus.FieldLogger
}

func NewSink(t Transport, deviceID, version string, log logrus.FieldLogger) *Sink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sink{
		transport: t,
		deviceID:  deviceID,
		version:   version,
		log:       log,
	}
}

// Announce sends the device info message.
func (s *Sink) Announce(ctx context.Context) error {
	b, err := json.Marshal(NewDeviceInfo(s.deviceID, s.version))
	if err != nil {
		return errors.Wrap(err, "serialize device info")
	}
	if err = s.transport.Send(ctx, b); err != nil {
		return &TransportError{Err: err}
	}
	s.log.WithField("device", s.deviceID).Info("device info sent")
	return nil
}

func (s *Sink) Dispatch(ctx context.Context, snap controller.Snapshot) error {
	b, err := json.Marshal(NewTelemetry(s.deviceID, snap))
	if err != nil {
		return errors.Wrap(err, "serialize telemetry")
	}
	if err = s.transport.Send(ctx, b); err != nil {
		return &TransportError{Err: err}
	}
	s.log.WithField("state", snap).Debug("telemetry sent")
	return nil
}

func (s *Sink) Close() error {
	return s.transport.Close()
}
