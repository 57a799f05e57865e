// Package manager applies the bundle manifest package-by-package
// through a primary package manager with a secondary fallback, both
// running strictly offline against caches shipped inside the bundle.
package manager

import (
	"context"
	"os/exec"

	"github.com/offlinekit/airlift/pkg/bundle"
)

// Manager is one wrapped package manager. Implementations shell out to
// the tool installed with the runtime; dependency solving is the
// tool's problem, not ours.
type Manager interface {
	// Name identifies the manager ("conda", "pip").
	Name() string

	// IsAvailable reports whether the manager's executable exists in
	// the installed runtime tree.
	IsAvailable() bool

	// Install installs a single package. The name is already
	// alias-resolved for this manager.
	Install(ctx context.Context, pkg bundle.PackageSpec) error
}

// Execer runs an external command and returns its combined output.
type Execer interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type systemExecer struct{}

func (systemExecer) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
