// Package hostinfo inspects the host before an installation starts.
// Probing is strictly best-effort: a host we cannot measure is still a
// host we may be able to install on, so every failure degrades to an
// "unknown" value plus a warning instead of an error.
package hostinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Probe inspects the host and returns a capability snapshot. The path
// argument is where free disk space is measured; for a target that does
// not exist yet the nearest existing ancestor is probed instead. Probe
// never fails.
func Probe(path string) *Capabilities {
	caps := &Capabilities{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	caps.OSVersion = osVersion()
	if caps.OSVersion == "" {
		caps.Warnings = append(caps.Warnings, "could not determine OS version")
	}

	if path == "" {
		path = os.TempDir()
	}
	probePath := nearestExisting(path)

	caps.Space = FreeSpace(probePath)
	if !caps.Space.Known {
		caps.Warnings = append(caps.Warnings,
			fmt.Sprintf("free disk space at %s could not be determined", probePath))
	}

	return caps
}

// nearestExisting walks up from path until it finds a directory that
// exists. Disk-space tools cannot stat a path that is not there yet.
func nearestExisting(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

// osVersion reads a human-readable OS description, best-effort.
func osVersion() string {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if value, ok := strings.CutPrefix(line, "PRETTY_NAME="); ok {
			return strings.Trim(strings.TrimSpace(value), `"`)
		}
	}
	return ""
}
