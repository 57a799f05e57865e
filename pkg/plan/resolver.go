// pkg/plan/resolver.go
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/offlinekit/airlift/pkg/hostinfo"
)

// Request carries everything resolution needs. The same Request against
// the same host state always yields the same plan, so a dry run and the
// real run that follows it agree on the target.
type Request struct {
	Mode   Mode
	Prefix string // required for ModeCustom, ignored otherwise
	Silent bool
	Force  bool
	DryRun bool

	// SpaceThreshold is the free bytes required at the target;
	// 0 means DefaultSpaceThreshold.
	SpaceThreshold uint64

	// AbortOnUnknownSpace escalates an unmeasurable disk to a fatal
	// error instead of the default proceed-with-warning.
	AbortOnUnknownSpace bool
}

// elevated reports whether the process has the privilege a system-wide
// install needs. Overridable in tests.
var elevated = isElevated

// TargetFor maps a mode to its concrete install directory. System mode
// without elevation fails here, before any probing or filesystem work,
// so the failure has no side effects and repeats identically.
func TargetFor(req Request) (string, error) {
	switch req.Mode {
	case ModeUser:
		return userTarget()
	case ModeSystem:
		if !elevated() {
			return "", fmt.Errorf("resolving target: %w", ErrInsufficientPrivilege)
		}
		return systemTarget(), nil
	case ModeCustom:
		if req.Prefix == "" {
			return "", fmt.Errorf("resolving target: %w: custom mode requires a prefix", ErrInvalidMode)
		}
		// Taken verbatim; existence is the Collision Handler's concern.
		return req.Prefix, nil
	default:
		return "", fmt.Errorf("resolving target: %w: %q", ErrInvalidMode, req.Mode)
	}
}

// Resolve builds the InstallPlan, enforcing the disk-space policy.
// Violating the threshold is fatal when the measurement is trustworthy
// and a warning when it is not; the returned warnings end up in the
// final report either way.
func Resolve(req Request, caps *hostinfo.Capabilities) (*InstallPlan, []string, error) {
	target, err := TargetFor(req)
	if err != nil {
		return nil, nil, err
	}

	threshold := req.SpaceThreshold
	if threshold == 0 {
		threshold = DefaultSpaceThreshold
	}

	var warnings []string
	switch {
	case caps == nil || !caps.Space.Known:
		if req.AbortOnUnknownSpace {
			return nil, nil, fmt.Errorf("resolving target: %w: free space could not be measured", ErrInsufficientDiskSpace)
		}
		warnings = append(warnings, fmt.Sprintf(
			"free disk space could not be measured; proceeding assuming at least %s is available",
			hostinfo.KnownSpace(threshold)))
	case caps.Space.Bytes < threshold:
		return nil, nil, fmt.Errorf("resolving target: %w: %s free, %s required",
			ErrInsufficientDiskSpace, caps.Space, hostinfo.KnownSpace(threshold))
	}

	return &InstallPlan{
		Mode:   req.Mode,
		Target: target,
		Silent: req.Silent,
		Force:  req.Force,
		DryRun: req.DryRun,
	}, warnings, nil
}

func userTarget() (string, error) {
	if path := os.Getenv("AIRLIFT_INSTALL_PATH"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving target: %w: no home directory: %v", ErrInvalidMode, err)
	}
	return filepath.Join(home, ".airlift"), nil
}

func systemTarget() string {
	if runtime.GOOS == "windows" {
		programFiles := os.Getenv("ProgramFiles")
		if programFiles == "" {
			programFiles = `C:\Program Files`
		}
		return filepath.Join(programFiles, "Airlift")
	}
	return "/opt/airlift"
}
