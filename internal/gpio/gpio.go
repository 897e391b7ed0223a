// Package gpio provides the two-line hardware boundary with hardware
// abstraction. The real implementation uses the Linux GPIO character
// device. The fake implementation allows testing without hardware.
package gpio

// Device owns the switch input line and the lamp output line.
type Device interface {
	// ReadSwitch returns the logical level of the switch line:
	// true = HIGH (switch closed), false = LOW.
	ReadSwitch() (bool, error)

	// SetLamp drives the lamp line HIGH (true) or LOW (false).
	SetLamp(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering, first hardware revision).
const (
	DefaultPinLamp   = 3
	DefaultPinSwitch = 2
)
