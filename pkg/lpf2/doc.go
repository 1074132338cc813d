// Package lpf2 is the host-side model of LPF2 device descriptors.
//
// A DeviceDescriptor describes one LPF2 device type: which modes it exposes
// for input and output, its capability bits and, for every mode, the raw,
// percentage and SI value ranges together with the sample format and the
// 48-bit mode flags.
//
// Descriptor tables are normally produced by lpf2-descgen from a text dump
// of a real device and registered at start-up:
//
//	reg := lpf2.NewRegistry()
//	descriptors.Register(reg)
//
//	if desc, ok := reg.Lookup(lpf2.DeviceType(0x25)); ok {
//	    fmt.Println(desc.Modes[0].Name)
//	}
package lpf2
