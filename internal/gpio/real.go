//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealDevice drives actual hardware using the Linux GPIO character device.
type RealDevice struct {
	chip      *gpiocdev.Chip
	lampPin   *gpiocdev.Line
	switchPin *gpiocdev.Line
}

// NewRealDevice requests the lamp line as output (initially low) and the
// switch line as input for actual Raspberry Pi hardware.
func NewRealDevice(pinLamp, pinSwitch int) (*RealDevice, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	lampLine, err := chip.RequestLine(pinLamp, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request lamp pin %d: %w", pinLamp, err)
	}

	// Pull-down matches the Pi boot default and keeps the tilt switch
	// reading low while open.
	switchLine, err := chip.RequestLine(pinSwitch, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		lampLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request switch pin %d: %w", pinSwitch, err)
	}

	return &RealDevice{
		chip:      chip,
		lampPin:   lampLine,
		switchPin: switchLine,
	}, nil
}

// ReadSwitch returns the logical level of the switch line.
func (d *RealDevice) ReadSwitch() (bool, error) {
	raw, err := d.switchPin.Value()
	if err != nil {
		return false, fmt.Errorf("read switch pin: %w", err)
	}
	return raw != 0, nil
}

// SetLamp drives the lamp line.
func (d *RealDevice) SetLamp(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := d.lampPin.SetValue(v); err != nil {
		return fmt.Errorf("set lamp pin: %w", err)
	}
	return nil
}

// Close releases GPIO resources. The lamp is driven low and both lines are
// reconfigured to input with pull-down (matching Pi boot defaults) before
// closing, so a shutdown or reboot never leaves the lamp lit.
func (d *RealDevice) Close() error {
	var errs []error

	if d.lampPin != nil {
		if err := d.lampPin.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("lower lamp pin: %w", err))
		}
		if err := d.lampPin.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure lamp pin: %w", err))
		}
		if err := d.lampPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close lamp pin: %w", err))
		}
	}
	if d.switchPin != nil {
		if err := d.switchPin.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure switch pin: %w", err))
		}
		if err := d.switchPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close switch pin: %w", err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
