// Command lpf2-descgen converts an LPF2 device dump into descriptor
// declarations for a host program.
//
// Usage:
//
//	lpf2-descgen [flags] <dump.txt>
//
// Examples:
//
//	# C++ descriptor table on stdout
//	lpf2-descgen devices.txt > Lpf2DevicesGen.h
//
//	# Go descriptors with a Register function
//	lpf2-descgen --target go --go-package descriptors -o descriptors_gen.go devices.txt
//
//	# Review what the parser saw
//	lpf2-descgen --target yaml devices.txt
//
//	# Record a pipeline trace for lpf2-trace
//	lpf2-descgen --trace run.ctrace devices.txt
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
