// Package plan resolves the requested install mode into an immutable
// InstallPlan. Once built, no component mutates the plan; its Target is
// the single source of truth for the install location.
package plan

import (
	"errors"
	"path/filepath"
	"runtime"
)

// Mode selects where the runtime is installed.
type Mode string

const (
	ModeUser   Mode = "user"   // home-relative default directory
	ModeSystem Mode = "system" // machine-wide, requires elevation
	ModeCustom Mode = "custom" // caller-supplied prefix, taken verbatim
)

// Error kinds surfaced by resolution. All are fatal and non-retryable.
var (
	ErrInvalidMode           = errors.New("invalid install mode")
	ErrInsufficientPrivilege = errors.New("system install requires elevated privilege")
	ErrInsufficientDiskSpace = errors.New("insufficient disk space at target")
)

// DefaultSpaceThreshold is the free space required at the target before
// an install is allowed to start.
const DefaultSpaceThreshold uint64 = 2 << 30 // 2 GiB

// InstallPlan is the resolved, read-only description of one run.
type InstallPlan struct {
	Mode   Mode
	Target string
	Silent bool
	Force  bool
	DryRun bool
}

// Bin returns the path of a tool inside the installed runtime tree.
// On Windows the interpreter lives at the prefix root and the tools
// under Scripts; everywhere else everything is under bin.
func (p *InstallPlan) Bin(tool string) string {
	if runtime.GOOS == "windows" {
		if tool == "python" {
			return filepath.Join(p.Target, "python.exe")
		}
		return filepath.Join(p.Target, "Scripts", tool+".exe")
	}
	return filepath.Join(p.Target, "bin", tool)
}
