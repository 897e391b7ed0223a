package gpio

import "errors"

// FakeDevice is a test double that returns scripted switch levels and
// records lamp writes.
type FakeDevice struct {
	// Samples contains scripted switch levels (true = HIGH) to return.
	// Each call to ReadSwitch consumes the next sample.
	Samples []bool

	// index tracks current position in Samples
	index int

	// LampWrites records every SetLamp call in order.
	LampWrites []bool

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by ReadSwitch()
	ReadError error

	// WriteError, if set, will be returned by SetLamp()
	WriteError error
}

// NewFakeDevice creates a FakeDevice with the given switch samples.
func NewFakeDevice(samples []bool) *FakeDevice {
	return &FakeDevice{Samples: samples}
}

// ReadSwitch returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeDevice) ReadSwitch() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// SetLamp records the write. There is no write path to the switch line:
// the fake mirrors the real device's role split.
func (f *FakeDevice) SetLamp(on bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.LampWrites = append(f.LampWrites, on)
	return nil
}

// LampOn reports the level of the most recent lamp write (false if none).
func (f *FakeDevice) LampOn() bool {
	if len(f.LampWrites) == 0 {
		return false
	}
	return f.LampWrites[len(f.LampWrites)-1]
}

// Close marks the device as closed.
func (f *FakeDevice) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the samples and clears recorded writes.
func (f *FakeDevice) Reset() {
	f.index = 0
	f.LampWrites = nil
	f.Closed = false
}
