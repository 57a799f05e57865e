// Package runner executes the staged runtime installer against the
// resolved target. A zero exit code is necessary but not sufficient:
// the run only counts as a success once the runtime entry point exists
// under the target.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/offlinekit/airlift/pkg/bundle"
	"github.com/offlinekit/airlift/pkg/plan"
	"github.com/offlinekit/airlift/pkg/runlog"
)

// ErrInstallFailed indicates the runtime itself did not install. This
// aborts the whole run; there is no partial state worth recovering.
var ErrInstallFailed = errors.New("runtime install failed")

// Execer runs an external command and returns its combined output.
type Execer interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type systemExecer struct{}

func (systemExecer) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Runner drives the runtime installer artifact.
type Runner struct {
	Exec Execer
	Log  *runlog.Log
}

// New builds a Runner shelling out to the real system.
func New(log *runlog.Log) *Runner {
	return &Runner{Exec: systemExecer{}, Log: log}
}

// Run installs the runtime from b into p.Target.
func (r *Runner) Run(ctx context.Context, b *bundle.Bundle, p *plan.InstallPlan) error {
	installer := b.InstallerPath
	r.Log.Infof("installing runtime from %s into %s", filepath.Base(installer), p.Target)

	var err error
	switch {
	case strings.HasSuffix(installer, ".tar.xz"):
		err = extractArchive(installer, p.Target)
	case strings.HasSuffix(installer, ".exe"):
		err = r.runCommand(ctx, installer, "/S", "/D="+p.Target)
	default:
		// Miniconda-family shell installers: batch mode, no prompts.
		err = r.runCommand(ctx, "sh", installer, "-b", "-p", p.Target)
	}
	if err != nil {
		return err
	}

	// The installer's word alone is not trusted.
	entry := p.Bin("python")
	if _, statErr := os.Stat(entry); statErr != nil {
		return fmt.Errorf("running installer: %w: runtime entry point %s missing after install",
			ErrInstallFailed, entry)
	}

	r.Log.Infof("runtime installed, entry point %s present", entry)
	return nil
}

func (r *Runner) runCommand(ctx context.Context, name string, args ...string) error {
	out, err := r.Exec.Run(ctx, name, args...)
	if len(out) > 0 {
		r.Log.Debugf("installer output:\n%s", strings.TrimSpace(string(out)))
	}
	if err != nil {
		return fmt.Errorf("running installer: %w: %v: %s",
			ErrInstallFailed, err, firstLine(out))
	}
	return nil
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
