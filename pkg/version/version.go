// Package version reports the lpf2-go tool version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Current is the release version of the lpf2-go tools. Release builds set
// it with -ldflags "-X github.com/lpf2-protocol/lpf2-go/pkg/version.Current=...".
var Current = "0.1.0"

// Commit is the VCS revision. When unset it is read from the build info.
var Commit = ""

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Revision returns the VCS revision the binary was built from, shortened to
// 12 characters, or "" when unknown.
func Revision() string {
	rev := Commit
	if rev == "" {
		if info, ok := readBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					rev = s.Value
					break
				}
			}
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return rev
}

// Full returns the version with build details, e.g.
// "0.1.0 (commit 1a2b3c4d5e6f, go1.25.5)".
func Full() string {
	if rev := Revision(); rev != "" {
		return fmt.Sprintf("%s (commit %s, %s)", Current, rev, runtime.Version())
	}
	return fmt.Sprintf("%s (%s)", Current, runtime.Version())
}
