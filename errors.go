// errors.go
package airlift

import (
	"errors"
	"fmt"

	"github.com/offlinekit/airlift/pkg/bundle"
	"github.com/offlinekit/airlift/pkg/collision"
	"github.com/offlinekit/airlift/pkg/plan"
	"github.com/offlinekit/airlift/pkg/runner"
)

// Re-export the fatal error kinds so callers can classify failures
// without importing every sub-package.
var (
	// ErrInvalidMode indicates an unusable mode/prefix combination.
	ErrInvalidMode = plan.ErrInvalidMode

	// ErrInsufficientPrivilege indicates a system install without elevation.
	ErrInsufficientPrivilege = plan.ErrInsufficientPrivilege

	// ErrInsufficientDiskSpace indicates a confidently-measured space shortfall.
	ErrInsufficientDiskSpace = plan.ErrInsufficientDiskSpace

	// ErrBundleNotFound indicates the staging directory holds no usable bundle.
	ErrBundleNotFound = bundle.ErrNotFound

	// ErrExistingInstallation indicates a collision in non-interactive mode.
	ErrExistingInstallation = collision.ErrExistingInstallation

	// ErrUserCancelled indicates the operator declined the collision prompt.
	ErrUserCancelled = collision.ErrUserCancelled

	// ErrRuntimeInstallFailed indicates the runtime itself did not install.
	ErrRuntimeInstallFailed = runner.ErrInstallFailed
)

// Error wraps an error with additional context.
type Error struct {
	Op      string // operation that failed
	Package string // package name if applicable
	Err     error  // underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Exit codes, one per fatal error class. 0 covers Success and
// PartialSuccess: per-package detail travels in the report, overall run
// health travels in the exit code.
const (
	ExitOK                    = 0
	ExitFailure               = 1
	ExitInvalidMode           = 2
	ExitBundleNotFound        = 3
	ExitInsufficientPrivilege = 4
	ExitExistingInstallation  = 5
	ExitUserCancelled         = 6
	ExitInsufficientDiskSpace = 7
	ExitRuntimeInstallFailed  = 8
)

// ExitCode maps an error to the process exit code. This is the single
// top-level translation point; nothing else calls os.Exit with a
// meaningful code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalidMode):
		return ExitInvalidMode
	case errors.Is(err, ErrBundleNotFound):
		return ExitBundleNotFound
	case errors.Is(err, ErrInsufficientPrivilege):
		return ExitInsufficientPrivilege
	case errors.Is(err, ErrExistingInstallation):
		return ExitExistingInstallation
	case errors.Is(err, ErrUserCancelled):
		return ExitUserCancelled
	case errors.Is(err, ErrInsufficientDiskSpace):
		return ExitInsufficientDiskSpace
	case errors.Is(err, ErrRuntimeInstallFailed):
		return ExitRuntimeInstallFailed
	default:
		return ExitFailure
	}
}
