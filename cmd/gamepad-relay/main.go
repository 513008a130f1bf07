package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	gamepads "github.com/doingharm/gamepad-relay"
	"github.com/doingharm/gamepad-relay/config"
	"github.com/doingharm/gamepad-relay/controller"
	"github.com/doingharm/gamepad-relay/output/gpio"
	"github.com/doingharm/gamepad-relay/output/telemetry"
	"github.com/doingharm/gamepad-relay/relay"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		device     = flag.String("device", "", "joystick device node, overrides the config")
		mode       = flag.String("mode", "", "gpio or telemetry, overrides the config")
		verbose    = flag.Bool("verbose", false, "log at debug level")
		info       = flag.Bool("info", false, "print the joysticks found in /dev/input and exit")
	)
	flag.Parse()

	log := logrus.New()

	if *info {
		if err := printDevices(); err != nil {
			log.WithError(err).Error("scan failed")
			os.Exit(1)
		}
		return
	}

	cfg, err := loadConfig(*configPath, *device, *mode)
	if err != nil {
		log.WithError(err).Error("bad configuration")
		os.Exit(1)
	}
	if err = setupLogger(log, cfg, *verbose); err != nil {
		log.WithError(err).Error("bad configuration")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entry := log.WithFields(logrus.Fields{"mode": cfg.Mode, "device": cfg.Device})
	err = run(ctx, cfg, entry)
	if err != nil {
		entry.WithError(err).Error("relay stopped")
	} else {
		entry.Info("relay stopped")
	}
	stop()
	os.Exit(exitStatus(err))
}

// exitStatus is 0 after a clean shutdown and 1 after any failure,
// including a lost joystick.
func exitStatus(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

func loadConfig(path, device, mode string) (cfg config.Config, err error) {
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return
		}
	} else {
		cfg = config.Default()
		if key := os.Getenv(config.DeviceKeyEnv); key != "" {
			cfg.Telemetry.DeviceKey = key
		}
	}
	if device != "" {
		cfg.Device = device
	}
	if mode != "" {
		cfg.Mode = mode
	}
	return cfg, cfg.Validate()
}

func setupLogger(log *logrus.Logger, cfg config.Config, verbose bool) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func printDevices() error {
	devices, err := gamepads.Scan("")
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("no joysticks found")
	}
	for _, d := range devices {
		fmt.Println(d)
	}
	return nil
}

// outputSink is a sink that holds hardware or a connection.
type outputSink interface {
	relay.Sink
	Close() error
}

// run owns every resource for the life of the relay and releases them on
// the way out, whatever the outcome.
func run(ctx context.Context, cfg config.Config, log logrus.FieldLogger) error {

	if cfg.WaitForDevice {
		log.Info("waiting for joystick")
		if err := gamepads.WaitForDevice(ctx, cfg.Device); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}

	dev, err := gamepads.Open(cfg.Device)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()
	log.WithField("gamepad", dev.Info()).Info("joystick opened")

	sink, err := newSink(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.WithError(err).Warn("closing output failed")
		}
	}()

	return serve(ctx, dev, dev.Info().Axes, sink, cfg, log)
}

// serve runs the relay loop between src and sink until ctx ends or src
// fails.
func serve(ctx context.Context, src gamepads.Source, axes int, sink relay.Sink, cfg config.Config, log logrus.FieldLogger) error {

	policy, _ := cfg.ButtonPolicy()
	cadence, _ := cfg.DispatchCadence()
	log.WithFields(logrus.Fields{"policy": policy, "cadence": cadence}).Info("relay running")

	loop, err := relay.New(src, sink, axes, relay.Options{
		Cadence:  cadence,
		Interval: cfg.Interval,
		Decoder:  controller.Decoder{Policy: policy},
		Logger:   log,
	})
	if err != nil {
		return err
	}
	return loop.Run(ctx)
}

func newSink(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (outputSink, error) {
	switch cfg.Mode {
	case config.ModeGPIO:
		outputs, err := cfg.Outputs()
		if err != nil {
			return nil, err
		}
		driver, err := gpio.NewDriver(cfg.GPIO.Driver, log)
		if err != nil {
			return nil, err
		}
		sink, err := gpio.NewSink(driver, outputs, log)
		if err != nil {
			_ = driver.Close()
			return nil, err
		}
		return sink, nil

	case config.ModeTelemetry:
		transport, err := telemetry.NewTransport(cfg.Telemetry.Transport, telemetry.Options{
			Credentials: cfg.Credentials(),
			TokenTTL:    cfg.Telemetry.TokenTTL,
			Timeout:     cfg.Telemetry.Timeout,
			Logger:      log,
		})
		if err != nil {
			return nil, err
		}
		sink := telemetry.NewSink(transport, cfg.Telemetry.DeviceID, cfg.Telemetry.Version, log)
		if err = sink.Announce(ctx); err != nil {
			log.WithError(err).Error("device info not sent")
		}
		return sink, nil

	default:
		return nil, errors.Errorf(errUnknownMode, cfg.Mode)
	}
}
