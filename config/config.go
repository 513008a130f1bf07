// Package config loads the relay's YAML configuration.
package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/doingharm/gamepad-relay/controller"
	"github.com/doingharm/gamepad-relay/output/gpio"
	"github.com/doingharm/gamepad-relay/output/telemetry"
	"github.com/doingharm/gamepad-relay/relay"
)

const (
	ModeGPIO      = "gpio"
	ModeTelemetry = "telemetry"
)

// DeviceKeyEnv overrides telemetry.device_key.
const DeviceKeyEnv = "GAMEPAD_RELAY_DEVICE_KEY"

const maxBCMPin = 53

type Config struct {
	Device        string `yaml:"device"`
	WaitForDevice bool   `yaml:"wait_for_device"`
	Mode          string `yaml:"mode"`
	// Policy and Cadence fall back to the mode's default when empty.
	Policy    string        `yaml:"policy,omitempty"`
	Cadence   string        `yaml:"cadence,omitempty"`
	Interval  time.Duration `yaml:"interval"`
	GPIO      GPIO          `yaml:"gpio"`
	Telemetry Telemetry     `yaml:"telemetry"`
	Log       Log           `yaml:"log"`
}

type GPIO struct {
	Driver string   `yaml:"driver"`
	LEDs   []Output `yaml:"leds"`
	Buzzer Output   `yaml:"buzzer"`
}

// Output maps a button, by name or index, to a BCM pin.
type Output struct {
	Name   string `yaml:"name"`
	Button string `yaml:"button"`
	Pin    int    `yaml:"pin"`
}

type Telemetry struct {
	Transport string        `yaml:"transport"`
	HubName   string        `yaml:"hub_name"`
	HubSuffix string        `yaml:"hub_suffix"`
	DeviceID  string        `yaml:"device_id"`
	DeviceKey string        `yaml:"device_key"`
	Version   string        `yaml:"version"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the demo board setup: LEDs and buzzer on the first
// joystick.
func Default() Config {
	cfg := Config{
		Device:   "/dev/input/js0",
		Mode:     ModeGPIO,
		Interval: time.Second,
		GPIO: GPIO{
			Driver: gpio.DriverPeriph,
			Buzzer: fromOutput(gpio.DefaultBuzzer()),
		},
		Telemetry: Telemetry{
			Transport: telemetry.TransportAMQP,
			HubSuffix: "azure-devices.net",
			DeviceID:  "raspberryPi3",
			Version:   "1.0",
			TokenTTL:  time.Hour,
			Timeout:   10 * time.Second,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
	for _, o := range gpio.DefaultLEDs() {
		cfg.GPIO.LEDs = append(cfg.GPIO.LEDs, fromOutput(o))
	}
	return cfg
}

func fromOutput(o gpio.Output) Output {
	return Output{Name: o.Name, Button: o.Button.String(), Pin: o.Pin}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults. Unknown keys are an error.
func Parse(b []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "parse config")
	}

	if key := os.Getenv(DeviceKeyEnv); key != "" {
		cfg.Telemetry.DeviceKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ButtonPolicy resolves the decoder policy. Both modes default to level
// tracking.
func (c Config) ButtonPolicy() (controller.Policy, error) {
	if c.Policy == "" {
		return controller.Level, nil
	}
	return controller.ParsePolicy(c.Policy)
}

// DispatchCadence resolves when the sink runs: GPIO reacts to every
// event, telemetry reports on the interval.
func (c Config) DispatchCadence() (relay.Cadence, error) {
	if c.Cadence == "" {
		if c.Mode == ModeTelemetry {
			return relay.Interval, nil
		}
		return relay.Immediate, nil
	}
	return relay.ParseCadence(c.Cadence)
}

// Outputs returns the LEDs followed by the buzzer.
func (c Config) Outputs() ([]gpio.Output, error) {
	all := append(append([]Output(nil), c.GPIO.LEDs...), c.GPIO.Buzzer)

	dest := make([]gpio.Output, 0, len(all))
	for _, o := range all {
		b, ok := parseButton(o.Button)
		if !ok {
			return nil, errors.Errorf(errUnknownButton, o.Name, o.Button)
		}
		dest = append(dest, gpio.Output{Name: o.Name, Button: b, Pin: o.Pin})
	}
	return dest, nil
}

func parseButton(s string) (controller.ButtonIndex, bool) {
	if b, ok := controller.ParseButton(s); ok {
		return b, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= controller.NumButtons {
		return 0, false
	}
	return controller.ButtonIndex(n), true
}

func (c Config) Credentials() telemetry.Credentials {
	return telemetry.Credentials{
		HubName:   c.Telemetry.HubName,
		HubSuffix: c.Telemetry.HubSuffix,
		DeviceID:  c.Telemetry.DeviceID,
		DeviceKey: c.Telemetry.DeviceKey,
	}
}

func (c Config) LogLevel() (logrus.Level, error) {
	return logrus.ParseLevel(c.Log.Level)
}

// Validate checks the parts of the configuration the selected mode uses.
func (c Config) Validate() error {

	if c.Device == "" {
		return errors.New(errNoDevice)
	}

	if _, err := c.ButtonPolicy(); err != nil {
		return err
	}
	cadence, err := c.DispatchCadence()
	if err != nil {
		return err
	}
	if cadence == relay.Interval && c.Interval <= 0 {
		return errors.Errorf(errBadInterval, c.Interval)
	}

	if _, err = c.LogLevel(); err != nil {
		return errors.Wrap(err, "log.level")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.Errorf(errUnknownFormat, c.Log.Format)
	}

	switch c.Mode {
	case ModeGPIO:
		return c.validateGPIO()
	case ModeTelemetry:
		return c.validateTelemetry()
	default:
		return errors.Errorf(errUnknownMode, c.Mode)
	}
}

func (c Config) validateGPIO() error {

	switch c.GPIO.Driver {
	case gpio.DriverPeriph, gpio.DriverRpio, gpio.DriverLog:
	default:
		return errors.Errorf(errUnknownDriver, c.GPIO.Driver)
	}

	outputs, err := c.Outputs()
	if err != nil {
		return err
	}

	used := make(map[int]string)
	for _, o := range outputs {
		if o.Pin < 0 || o.Pin > maxBCMPin {
			return errors.Errorf(errBadPin, o.Name, o.Pin)
		}
		if other, ok := used[o.Pin]; ok {
			return errors.Errorf(errDuplicatePin, other, o.Name, o.Pin)
		}
		used[o.Pin] = o.Name
	}
	return nil
}

func (c Config) validateTelemetry() error {

	t := c.Telemetry
	switch t.Transport {
	case telemetry.TransportAMQP, telemetry.TransportHTTP:
	case telemetry.TransportLog:
		if t.DeviceID == "" {
			return errors.Errorf(errMissingField, "device_id", t.Transport)
		}
		return nil
	default:
		return errors.Errorf(errUnknownTransport, t.Transport)
	}

	required := []struct{ name, value string }{
		{"hub_name", t.HubName},
		{"hub_suffix", t.HubSuffix},
		{"device_id", t.DeviceID},
		{"device_key", t.DeviceKey},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.Errorf(errMissingField, r.name, t.Transport)
		}
	}
	return nil
}
