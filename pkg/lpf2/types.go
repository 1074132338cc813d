package lpf2

import (
	"encoding/binary"
	"fmt"
)

// DeviceType identifies an LPF2 device (the attached I/O type id).
type DeviceType uint8

// String returns the device type as two-digit hex.
func (t DeviceType) String() string {
	return fmt.Sprintf("0x%02X", uint8(t))
}

// Format is the storage format of one raw sample value.
type Format uint8

const (
	// Format8Bit stores each value as a signed byte.
	Format8Bit Format = 0x00
	// Format16Bit stores each value as a little-endian int16.
	Format16Bit Format = 0x01
	// Format32Bit stores each value as a little-endian int32.
	Format32Bit Format = 0x02
	// FormatFloat stores each value as an IEEE 754 float32.
	FormatFloat Format = 0x03
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case Format8Bit:
		return "8BIT"
	case Format16Bit:
		return "16BIT"
	case Format32Bit:
		return "32BIT"
	case FormatFloat:
		return "FLOAT"
	default:
		return "UNKNOWN"
	}
}

// Size returns the size in bytes of one value stored in this format.
func (f Format) Size() int {
	switch f {
	case Format16Bit:
		return 2
	case Format32Bit, FormatFloat:
		return 4
	default:
		return 1
	}
}

// FormatFromKey maps the raw format key of a device dump ("0x00".."0x03")
// to a Format. Any other key, including the empty string, maps to
// Format8Bit.
func FormatFromKey(key string) Format {
	switch key {
	case "0x01":
		return Format16Bit
	case "0x02":
		return Format32Bit
	case "0x03":
		return FormatFloat
	default:
		return Format8Bit
	}
}

// FlagsWidth is the number of bytes in a mode flags field.
const FlagsWidth = 6

// Flags is the 48-bit mode flags field, most significant byte first.
type Flags [FlagsWidth]byte

// MaxFlags is the largest value representable in Flags.
const MaxFlags = 1<<(8*FlagsWidth) - 1

// FlagsFromUint64 splits v into six big-endian bytes.
// It returns an error if v does not fit in 48 bits.
func FlagsFromUint64(v uint64) (Flags, error) {
	var f Flags
	if v > MaxFlags {
		return f, fmt.Errorf("flags value 0x%X exceeds 48 bits", v)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	copy(f[:], buf[8-FlagsWidth:])
	return f, nil
}

// Uint64 reassembles the flags into a single value.
func (f Flags) Uint64() uint64 {
	var buf [8]byte
	copy(buf[8-FlagsWidth:], f[:])
	return binary.BigEndian.Uint64(buf[:])
}

// String returns the flags as a 12-digit hex literal.
func (f Flags) String() string {
	return fmt.Sprintf("0x%012X", f.Uint64())
}

// MarshalText implements encoding.TextMarshaler.
func (f Flags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Mode describes one measurement or output mode of a device.
type Mode struct {
	Name string

	RawMin, RawMax float32
	PctMin, PctMax float32
	SIMin, SIMax   float32

	Unit string

	// In and Out are the input/output mapping bytes.
	In, Out uint8

	DataSets int
	Format   Format
	Figures  int
	Decimals int

	Flags Flags
}

// DeviceDescriptor describes an LPF2 device type.
type DeviceDescriptor struct {
	Type     DeviceType
	InModes  uint16
	OutModes uint16
	Caps     uint8
	Combos   []uint16
	Modes    []Mode
}

// Mode returns the mode at index i.
func (d *DeviceDescriptor) Mode(i int) (Mode, bool) {
	if i < 0 || i >= len(d.Modes) {
		return Mode{}, false
	}
	return d.Modes[i], true
}

// ModeByName returns the first mode with the given name.
func (d *DeviceDescriptor) ModeByName(name string) (int, bool) {
	for i, m := range d.Modes {
		if m.Name == name {
			return i, true
		}
	}
	return -1, false
}

// HasInputMode reports whether mode i is available for input.
func (d *DeviceDescriptor) HasInputMode(i int) bool {
	return i >= 0 && i < 16 && d.InModes&(1<<i) != 0
}

// HasOutputMode reports whether mode i is available for output.
func (d *DeviceDescriptor) HasOutputMode(i int) bool {
	return i >= 0 && i < 16 && d.OutModes&(1<<i) != 0
}
