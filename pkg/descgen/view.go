package descgen

import (
	"fmt"
	"math"

	"github.com/lpf2-protocol/lpf2-go/pkg/dump"
	"github.com/lpf2-protocol/lpf2-go/pkg/lpf2"
)

// deviceView is a device with every field resolved, ready for a template.
type deviceView struct {
	ID       uint64
	InModes  uint64
	OutModes uint64
	Caps     uint64
	Modes    []modeView
	Opts     *Options
}

type modeView struct {
	Name, Unit     string
	Min, Max       float64
	PctMin, PctMax float64
	SIMin, SIMax   float64
	In, Out        string
	InByte         uint64
	OutByte        uint64
	DataSets       int
	Format         lpf2.Format
	FormatTag      string
	Figures        int
	Decimals       int
	Flags          lpf2.Flags
}

// fieldCheck remembers the first absent field of a mode.
type fieldCheck struct {
	missing string
}

func need[T any](c *fieldCheck, field string, o dump.Optional[T]) T {
	v, ok := o.Get()
	if !ok && c.missing == "" {
		c.missing = field
	}
	return v
}

func resolveDevice(d *dump.Device, opts *Options) (deviceView, error) {
	v := deviceView{
		ID:       d.ID,
		InModes:  d.InModes,
		OutModes: d.OutModes,
		Caps:     d.Caps,
		Modes:    make([]modeView, 0, len(d.Modes)),
		Opts:     opts,
	}

	for i := range d.Modes {
		m, err := resolveMode(d, i, opts)
		if err != nil {
			return deviceView{}, err
		}
		v.Modes = append(v.Modes, m)
	}
	return v, nil
}

// resolveMode checks fields in emission order, so the error names the
// first one the output would need.
func resolveMode(d *dump.Device, i int, opts *Options) (modeView, error) {
	m := &d.Modes[i]
	c := &fieldCheck{}

	format := m.FormatValue()
	v := modeView{
		Name:      need(c, "name", m.Name),
		Min:       need(c, "min", m.Min),
		Max:       need(c, "max", m.Max),
		PctMin:    need(c, "PCT min", m.PctMin),
		PctMax:    need(c, "PCT max", m.PctMax),
		SIMin:     need(c, "SI min", m.SIMin),
		SIMax:     need(c, "SI max", m.SIMax),
		Unit:      need(c, "unit", m.Unit),
		In:        need(c, "in", m.In),
		Out:       need(c, "out", m.Out),
		DataSets:  need(c, "Data sets", m.DataSets),
		Format:    format,
		FormatTag: opts.FormatTags.Tag(format),
		Figures:   need(c, "Figures", m.Figures),
		Decimals:  need(c, "Decimals", m.Decimals),
		Flags:     need(c, "Flags", m.Flags),
	}

	if c.missing != "" {
		return modeView{}, &MissingFieldError{
			DeviceID:  d.ID,
			ModeIndex: i,
			ModeLine:  m.Line,
			Field:     c.missing,
		}
	}
	return v, nil
}

// narrowGo checks v against the field widths of lpf2.DeviceDescriptor and
// resolves the in/out tokens of each mode to byte values.
func narrowGo(d *dump.Device, v *deviceView) error {
	widths := []struct {
		field string
		val   uint64
		limit uint64
	}{
		{"Device", v.ID, math.MaxUint8},
		{"InModes", v.InModes, math.MaxUint16},
		{"OutModes", v.OutModes, math.MaxUint16},
		{"Caps", v.Caps, math.MaxUint8},
	}
	for _, w := range widths {
		if w.val > w.limit {
			return fmt.Errorf("%w: device %s (line %d): %s 0x%X exceeds 0x%X",
				ErrNotRepresentable, d.Label(), d.Line, w.field, w.val, w.limit)
		}
	}

	for i := range v.Modes {
		m := &v.Modes[i]
		var err error
		if m.InByte, err = modeByte(d, i, "in", m.In); err != nil {
			return err
		}
		if m.OutByte, err = modeByte(d, i, "out", m.Out); err != nil {
			return err
		}
	}
	return nil
}

func modeByte(d *dump.Device, i int, field, tok string) (uint64, error) {
	b, err := dump.ParseInt(tok)
	if err == nil && b <= math.MaxUint8 {
		return b, nil
	}
	return 0, fmt.Errorf("%w: device %s mode %d (line %d): %s %q is not a byte literal",
		ErrNotRepresentable, d.Label(), i, d.Modes[i].Line, field, tok)
}
