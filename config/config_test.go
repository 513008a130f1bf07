package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/doingharm/gamepad-relay/controller"
	"github.com/doingharm/gamepad-relay/output/gpio"
	"github.com/doingharm/gamepad-relay/relay"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	policy, _ := cfg.ButtonPolicy()
	cadence, _ := cfg.DispatchCadence()
	if policy != controller.Level || cadence != relay.Immediate {
		t.Errorf("gpio defaults: got %v %v", policy, cadence)
	}

	outputs, err := cfg.Outputs()
	if err != nil {
		t.Fatal(err)
	}
	want := append(gpio.DefaultLEDs(), gpio.DefaultBuzzer())
	if len(outputs) != len(want) {
		t.Fatalf("expected %d outputs, got %d", len(want), len(outputs))
	}
	for i := range want {
		if outputs[i] != want[i] {
			t.Errorf("output %d: expected %v, got %v", i, want[i], outputs[i])
		}
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Device != "/dev/input/js0" {
		t.Errorf("unexpected device %s", cfg.Device)
	}
}

func TestParseTelemetry(t *testing.T) {
	cfg, err := Parse([]byte(`
device: /dev/input/by-id/usb-pad-joystick
wait_for_device: true
mode: telemetry
interval: 500ms
telemetry:
  transport: http
  hub_name: PhilPiHub
  device_key: c2VjcmV0
log:
  level: debug
  format: json
`))
	if err != nil {
		t.Fatal(err)
	}

	cadence, _ := cfg.DispatchCadence()
	if cadence != relay.Interval || cfg.Interval != 500*time.Millisecond {
		t.Errorf("expected interval 500ms, got %v %v", cadence, cfg.Interval)
	}
	if !cfg.WaitForDevice {
		t.Error("wait_for_device not read")
	}

	creds := cfg.Credentials()
	if creds.Host() != "PhilPiHub.azure-devices.net" || creds.DeviceID != "raspberryPi3" {
		t.Errorf("unexpected credentials %+v", creds)
	}
}

func TestParseBuzzerOverride(t *testing.T) {
	cfg, err := Parse([]byte(`
policy: toggle
gpio:
  driver: log
  buzzer:
    button: start
`))
	if err != nil {
		t.Fatal(err)
	}
	policy, _ := cfg.ButtonPolicy()
	if policy != controller.Toggle {
		t.Errorf("expected toggle, got %v", policy)
	}
	outputs, _ := cfg.Outputs()
	buzzer := outputs[len(outputs)-1]
	if buzzer.Button != controller.Start || buzzer.Pin != gpio.PinBuzzer {
		t.Errorf("unexpected buzzer %+v", buzzer)
	}
}

func TestParseButtonByIndex(t *testing.T) {
	cfg, err := Parse([]byte(`
gpio:
  leds:
    - {name: only, button: "3", pin: 21}
`))
	if err != nil {
		t.Fatal(err)
	}
	outputs, _ := cfg.Outputs()
	if len(outputs) != 2 || outputs[0].Button != controller.Y || outputs[0].Pin != 21 {
		t.Errorf("unexpected outputs %+v", outputs)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"unknown key", "colour: red", "colour"},
		{"mode", "mode: serial", "unknown mode"},
		{"policy", "policy: latch", "latch"},
		{"cadence", "cadence: sometimes", "sometimes"},
		{"interval", "cadence: interval\ninterval: 0s", "interval"},
		{"device", "device: ''", "device"},
		{"driver", "gpio: {driver: wiringpi}", "wiringpi"},
		{"button", "gpio: {leds: [{name: l, button: select, pin: 4}]}", "select"},
		{"button index", "gpio: {leds: [{name: l, button: '8', pin: 4}]}", "'8'"},
		{"pin", "gpio: {leds: [{name: l, button: a, pin: 99}]}", "99"},
		{"duplicate", "gpio: {leds: [{name: l1, button: a, pin: 4}, {name: l2, button: b, pin: 4}]}", "share pin 4"},
		{"buzzer clash", "gpio: {leds: [{name: l1, button: a, pin: 8}]}", "share pin 8"},
		{"transport", "mode: telemetry\ntelemetry: {transport: mqtt}", "mqtt"},
		{"hub", "mode: telemetry\ntelemetry: {device_key: c2VjcmV0}", "hub_name"},
		{"key", "mode: telemetry\ntelemetry: {hub_name: h}", "device_key"},
		{"level", "log: {level: loud}", "log.level"},
		{"format", "log: {format: xml}", "xml"},
	}

	t.Setenv(DeviceKeyEnv, "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("expected %q in %q", tt.msg, err)
			}
		})
	}
}

func TestDeviceKeyFromEnvironment(t *testing.T) {
	t.Setenv(DeviceKeyEnv, "ZW52a2V5")

	cfg, err := Parse([]byte("mode: telemetry\ntelemetry: {hub_name: h}"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telemetry.DeviceKey != "ZW52a2V5" {
		t.Errorf("expected key from environment, got %q", cfg.Telemetry.DeviceKey)
	}
}

func TestLogTransportNeedsNoHub(t *testing.T) {
	if _, err := Parse([]byte("mode: telemetry\ntelemetry: {transport: log}")); err != nil {
		t.Error(err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	if err := os.WriteFile(path, []byte("gpio: {driver: rpio}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GPIO.Driver != gpio.DriverRpio {
		t.Errorf("expected rpio, got %s", cfg.GPIO.Driver)
	}

	if _, err = Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "relay.example.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	outputs, _ := cfg.Outputs()
	if len(outputs) != 7 {
		t.Errorf("expected 7 outputs, got %d", len(outputs))
	}
}
