package config

const (
	errUnknownMode      = "unknown mode '%s'"
	errNoDevice         = "no joystick device configured"
	errBadInterval      = "interval must be positive, got %v"
	errUnknownButton    = "output %s: unknown button '%s'"
	errBadPin           = "output %s: pin %d is not a BCM gpio"
	errDuplicatePin     = "outputs %s and %s share pin %d"
	errUnknownDriver    = "unknown gpio driver '%s'"
	errUnknownTransport = "unknown telemetry transport '%s'"
	errMissingField     = "telemetry.%s is required for the %s transport"
	errUnknownFormat    = "unknown log format '%s'"
)
