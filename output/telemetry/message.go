package telemetry

import "github.com/doingharm/gamepad-relay/controller"

// DeviceProperties describe the device to the hub.
type DeviceProperties struct {
	DeviceID        string
	HubEnabledState bool
}

// DeviceInfo is sent once at start-up so the cloud side knows the device
// is up.
type DeviceInfo struct {
	ObjectType        string
	IsSimulatedDevice bool
	Version           string
	DeviceProperties  DeviceProperties
}

func NewDeviceInfo(deviceID, version string) DeviceInfo {
	return DeviceInfo{
		ObjectType:        "DeviceInfo",
		IsSimulatedDevice: false,
		Version:           version,
		DeviceProperties: DeviceProperties{
			DeviceID:        deviceID,
			HubEnabledState: true,
		},
	}
}

// Telemetry is one controller state report. Buttons is the bitmask of
// pressed buttons, bit 0 for A up to bit 7 for Back.
type Telemetry struct {
	DeviceId    string
	Buttons     uint8
	RightAnalog float64
	LeftAnalog  float64
}

func NewTelemetry(deviceID string, s controller.Snapshot) Telemetry {
	return Telemetry{
		DeviceId:    deviceID,
		Buttons:     s.Bitmask(),
		RightAnalog: float64(s.RightAnalog()),
		LeftAnalog:  float64(s.LeftAnalog()),
	}
}
