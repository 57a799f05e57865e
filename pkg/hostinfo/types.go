// pkg/hostinfo/types.go
package hostinfo

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Space is a disk-space measurement that may be unknown. Unknown is a
// tagged state, never a sentinel byte count.
type Space struct {
	Bytes uint64
	Known bool
}

// KnownSpace returns a measured Space value.
func KnownSpace(bytes uint64) Space {
	return Space{Bytes: bytes, Known: true}
}

// UnknownSpace returns the unmeasured variant.
func UnknownSpace() Space {
	return Space{}
}

// String renders the measurement for reports and logs.
func (s Space) String() string {
	if !s.Known {
		return "unknown"
	}
	return humanize.IBytes(s.Bytes)
}

// Capabilities is an immutable snapshot of the host, computed once per
// run. Probing never fails; fields degrade to best-effort values and
// the reasons are collected in Warnings.
type Capabilities struct {
	OS        string   // GOOS
	OSVersion string   // best-effort, e.g. "Ubuntu 22.04.4 LTS"
	Arch      string   // GOARCH
	Space     Space    // free space at the probed path
	Warnings  []string // degradations encountered while probing
}

// String returns a one-line summary for logs.
func (c *Capabilities) String() string {
	version := c.OSVersion
	if version == "" {
		version = "unknown version"
	}
	return fmt.Sprintf("%s/%s (%s), %s free", c.OS, c.Arch, version, c.Space)
}
