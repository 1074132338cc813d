package dump

import (
	"fmt"

	"github.com/lpf2-protocol/lpf2-go/pkg/lpf2"
)

// Device is the parsed descriptor block of one device.
type Device struct {
	// ID is the device type id from the Device: line.
	ID uint64 `yaml:"id"`

	InModes  uint64 `yaml:"inModes"`
	OutModes uint64 `yaml:"outModes"`
	Caps     uint64 `yaml:"caps"`

	// Modes in dump order. The index of a mode is its mode number.
	Modes []Mode `yaml:"modes"`

	// Line is the input line of the Device: marker.
	Line int `yaml:"line"`
}

// Label returns the device id as it appears in generated code, e.g. "0x25".
func (d *Device) Label() string {
	return fmt.Sprintf("0x%02X", d.ID)
}

// Mode is the parsed attribute block of one device mode.
type Mode struct {
	Name Optional[string] `yaml:"name,omitempty"`
	Unit Optional[string] `yaml:"unit,omitempty"`

	Min    Optional[float64] `yaml:"min,omitempty"`
	Max    Optional[float64] `yaml:"max,omitempty"`
	PctMin Optional[float64] `yaml:"pctMin,omitempty"`
	PctMax Optional[float64] `yaml:"pctMax,omitempty"`
	SIMin  Optional[float64] `yaml:"siMin,omitempty"`
	SIMax  Optional[float64] `yaml:"siMax,omitempty"`

	DataSets Optional[int] `yaml:"dataSets,omitempty"`

	// Format is the raw format key ("0x00".."0x03"); see FormatValue.
	Format Optional[string] `yaml:"format,omitempty"`

	Figures  Optional[int] `yaml:"figures,omitempty"`
	Decimals Optional[int] `yaml:"decimals,omitempty"`

	// In and Out keep the raw token; C++ emits it as a symbol, Go needs a
	// byte literal.
	In  Optional[string] `yaml:"in,omitempty"`
	Out Optional[string] `yaml:"out,omitempty"`

	Flags Optional[lpf2.Flags] `yaml:"flags,omitempty"`

	// Line is the input line of the Mode marker.
	Line int `yaml:"line"`
}

// FormatValue resolves the raw format key. Absent or unknown keys resolve
// to lpf2.Format8Bit.
func (m *Mode) FormatValue() lpf2.Format {
	return lpf2.FormatFromKey(m.Format.ValueOr(""))
}
