package memory

import (
	"testing"

	"github.com/go-test/deep"
)

func TestFlatRAMReadWrite(t *testing.T) {
	r := NewFlatRAM(0xEA)
	if got, want := r.Read(0x1234), uint8(0xEA); got != want {
		t.Errorf("Read(0x1234) = 0x%.2X, want 0x%.2X", got, want)
	}
	r.Write(0x1234, 0x42)
	if got, want := r.Read(0x1234), uint8(0x42); got != want {
		t.Errorf("Read(0x1234) after write = 0x%.2X, want 0x%.2X", got, want)
	}
}

func TestFlatRAMLoad(t *testing.T) {
	r := NewFlatRAM(0x00)
	prog := []uint8{0xA9, 0xC0, 0xAA, 0xE8, 0x00}
	r.Load(prog)
	for i, b := range prog {
		if got := r.Read(uint16(i)); got != b {
			t.Errorf("Read(%d) = 0x%.2X, want 0x%.2X", i, got, b)
		}
	}
}

func TestFlatRAMLoadAt(t *testing.T) {
	r := NewFlatRAM(0x00)
	r.LoadAt(0xC000, []uint8{0x4C, 0x00, 0xC0})
	want := []uint8{0x4C, 0x00, 0xC0}
	for i, b := range want {
		if got := r.Read(0xC000 + uint16(i)); got != b {
			t.Errorf("Read(0x%.4X) = 0x%.2X, want 0x%.2X", 0xC000+i, got, b)
		}
	}
}

func TestFlatRAMEventRecording(t *testing.T) {
	r := NewFlatRAM(0x00)
	r.SetRecording(true)
	r.Write(0x0200, 0x55)
	r.Read(0x0200)

	want := []BusEvent{
		{Addr: 0x0200, Value: 0x55, RW: Write},
		{Addr: 0x0200, Value: 0x55, RW: Read},
	}
	if diff := deep.Equal(r.Events(), want); diff != nil {
		t.Errorf("Events() diff: %v", diff)
	}

	r.ResetEvents()
	if got := r.Events(); got != nil {
		t.Errorf("Events() after reset = %v, want nil", got)
	}
}

func TestRWString(t *testing.T) {
	if got, want := Read.String(), "read"; got != want {
		t.Errorf("Read.String() = %q, want %q", got, want)
	}
	if got, want := Write.String(), "write"; got != want {
		t.Errorf("Write.String() = %q, want %q", got, want)
	}
}
