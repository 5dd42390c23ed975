//go:build !windows

package bluetooth

// Devices lists the devices visible to the first radio
func Devices(timeoutMultiplier uint8) ([]Device, error) {
	return nil, ErrNotSupported
}
