// Package descgen renders parsed device dumps as descriptor source code.
//
// Three targets are supported:
//
//   - cpp: one `const Lpf2DeviceDescriptor LPF2_DEVICE_0xNN = {...};` block
//     per device, in the designated-initializer layout expected by the
//     firmware's descriptor struct
//   - go: a gofmt'ed Go file declaring lpf2.DeviceDescriptor variables and a
//     Register function; every value must fit its Go field, so in/out
//     must be byte literals rather than firmware symbols
//   - yaml: the parsed records, for review
//
// Output is deterministic. The cpp target streams one device block at a
// time, so a failure leaves the blocks already rendered in the writer; the
// go target formats the whole file first and writes nothing on failure.
//
// Every mode field except the sample format is required. A mode without,
// for example, a "name:" line fails with a *MissingFieldError. An absent or
// unknown format key renders as the 8-bit format tag.
package descgen
