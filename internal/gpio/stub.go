//go:build !linux

package gpio

import "errors"

// RealDevice is not available on non-Linux platforms.
type RealDevice struct{}

// NewRealDevice returns an error on non-Linux platforms.
func NewRealDevice(pinLamp, pinSwitch int) (*RealDevice, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// ReadSwitch is not implemented on non-Linux platforms.
func (d *RealDevice) ReadSwitch() (bool, error) {
	return false, errors.New("gpio: not supported")
}

// SetLamp is not implemented on non-Linux platforms.
func (d *RealDevice) SetLamp(on bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *RealDevice) Close() error {
	return nil
}
