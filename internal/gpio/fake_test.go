package gpio

import (
	"errors"
	"testing"
)

func TestFakeDeviceReadSwitch(t *testing.T) {
	f := NewFakeDevice([]bool{true, false, true})

	for i, want := range []bool{true, false, true} {
		got, err := f.ReadSwitch()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, got)
		}
	}

	// Fourth read should repeat last sample
	got, err := f.ReadSwitch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != true {
		t.Errorf("repeat sample: expected true, got %v", got)
	}
}

func TestFakeDeviceNoSamples(t *testing.T) {
	f := NewFakeDevice(nil)

	_, err := f.ReadSwitch()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeDeviceReadError(t *testing.T) {
	f := NewFakeDevice([]bool{true})
	f.ReadError = errors.New("boom")

	_, err := f.ReadSwitch()
	if err == nil {
		t.Error("expected configured read error")
	}
}

func TestFakeDeviceLampWrites(t *testing.T) {
	f := NewFakeDevice([]bool{false})

	writes := []bool{true, false, true, false}
	for _, w := range writes {
		if err := f.SetLamp(w); err != nil {
			t.Fatalf("SetLamp(%v): %v", w, err)
		}
	}

	if len(f.LampWrites) != len(writes) {
		t.Fatalf("expected %d writes, got %d", len(writes), len(f.LampWrites))
	}
	for i, w := range writes {
		if f.LampWrites[i] != w {
			t.Errorf("write %d: expected %v, got %v", i, w, f.LampWrites[i])
		}
	}
	if f.LampOn() {
		t.Error("expected lamp low after final write")
	}
}

func TestFakeDeviceLampOnNoWrites(t *testing.T) {
	f := NewFakeDevice(nil)
	if f.LampOn() {
		t.Error("expected lamp low before any write")
	}
}

func TestFakeDeviceWriteError(t *testing.T) {
	f := NewFakeDevice(nil)
	f.WriteError = errors.New("boom")

	if err := f.SetLamp(true); err == nil {
		t.Error("expected configured write error")
	}
	if len(f.LampWrites) != 0 {
		t.Error("failed write should not be recorded")
	}
}

func TestFakeDeviceClose(t *testing.T) {
	f := NewFakeDevice([]bool{true})
	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed {
		t.Error("expected Closed=true after Close")
	}
}

func TestFakeDeviceReset(t *testing.T) {
	f := NewFakeDevice([]bool{true, false})
	f.ReadSwitch()
	f.ReadSwitch()
	f.SetLamp(true)
	f.Close()

	f.Reset()

	if f.Closed {
		t.Error("Reset should clear Closed")
	}
	if len(f.LampWrites) != 0 {
		t.Error("Reset should clear lamp writes")
	}
	got, err := f.ReadSwitch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != true {
		t.Error("Reset should rewind to first sample")
	}
}
