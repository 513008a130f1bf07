package gpio

const (
	errUnknownDriver = "unknown gpio driver '%s'"
	errUnknownPin    = "no gpio pin named GPIO%d"
	errPinNotSetup   = "gpio pin %d was not set up as output"
	errOutputsFailed = "%d of %d outputs failed"
)
