// Package bluetooth enumerates Bluetooth devices visible to the local
// radio. The sub-authentication filter uses it as its gate.
package bluetooth

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned on platforms without the Bluetooth API
var ErrNotSupported = errors.New("bluetooth enumeration is only available on Windows")

// Device is one device reported by the radio
type Device struct {
	Name          string
	Address       uint64
	Class         uint32
	Connected     bool
	Remembered    bool
	Authenticated bool
}

// AddressString formats the address as XX:XX:XX:XX:XX:XX
func (d Device) AddressString() string {
	a := d.Address
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X",
		byte(a>>40), byte(a>>32), byte(a>>24), byte(a>>16), byte(a>>8), byte(a))
}

// Probe reports whether any device is visible. The zero value inquires
// for three timeout units (about 3.84 seconds) like the settings panel.
type Probe struct {
	// TimeoutMultiplier is the inquiry duration in 1.28 second units
	TimeoutMultiplier uint8
	// OnDevice is called for every device found
	OnDevice func(Device)
}

// Blocked reports whether a device is present
func (p *Probe) Blocked() (bool, error) {
	m := p.TimeoutMultiplier
	if m == 0 {
		m = 3
	}
	devs, err := Devices(m)
	if err != nil {
		return false, err
	}
	for _, d := range devs {
		if p.OnDevice != nil {
			p.OnDevice(d)
		}
	}
	return len(devs) > 0, nil
}
