// Package dump parses LPF2 device dumps.
//
// A dump is the loosely structured text printed while querying a device: one
// "Device:" block per attached device, followed by bitmask lines and one
// "Mode" block per mode, each listing the mode's attributes as "key: value"
// lines. The parser turns that text into an ordered list of Device records.
//
// # Line Grammar
//
// Lines are trimmed and matched against an ordered table of prefixes; the
// first match wins. Device-level prefixes are tried first:
//
//	Device: 0x25        start a new device (id autodetects 0x/0o/0b)
//	InModes: 0x03       input mode bitmask
//	OutModes: 0x01      output mode bitmask
//	Caps: 0x00          capability bitmask
//	Mode0:              start a new mode (any line beginning with "Mode")
//
// While a mode is active, mode-level prefixes are tried next:
//
//	name: COUNT
//	unit: CNT
//	min: 0               max: 100
//	PCT min: 0           PCT max: 100
//	SI min: 0            SI max: 100
//	Data sets: 1
//	format: 0x00
//	Figures: 3           Decimals: 0
//	in: 0x44             out: 0x00
//	Flags: 0x040500000000
//
// Everything else is ignored. Malformed numbers abort the parse with a
// *ParseError naming the offending line.
//
// Mode fields are Optional: the parser records only what the dump states,
// and leaves it to the consumer to decide whether an absent field is an
// error.
package dump
