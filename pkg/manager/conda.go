// pkg/manager/conda.go
package manager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/offlinekit/airlift/pkg/bundle"
	"github.com/offlinekit/airlift/pkg/plan"
	"github.com/offlinekit/airlift/pkg/runlog"
)

// Conda is the primary manager. It installs from the bundle's local
// package cache with --offline, so it can never reach for a remote
// channel.
type Conda struct {
	plan   *plan.InstallPlan
	bundle *bundle.Bundle
	exec   Execer
	log    *runlog.Log
}

// NewConda builds the conda manager for an installed runtime tree.
func NewConda(p *plan.InstallPlan, b *bundle.Bundle, log *runlog.Log) *Conda {
	return &Conda{plan: p, bundle: b, exec: systemExecer{}, log: log}
}

// Name implements Manager.
func (c *Conda) Name() string { return "conda" }

// IsAvailable implements Manager.
func (c *Conda) IsAvailable() bool {
	_, err := os.Stat(c.plan.Bin("conda"))
	return err == nil
}

// Install implements Manager. Conda version constraints use a single
// equals sign.
func (c *Conda) Install(ctx context.Context, pkg bundle.PackageSpec) error {
	spec := pkg.Name
	if pkg.Version != "" {
		spec = fmt.Sprintf("%s=%s", pkg.Name, pkg.Version)
	}

	args := []string{"install", "--yes", "--offline"}
	if c.bundle.CondaPkgDir != "" {
		args = append(args, "--channel", "file://"+c.bundle.CondaPkgDir, "--override-channels")
	}
	args = append(args, spec)

	out, err := c.exec.Run(ctx, c.plan.Bin("conda"), args...)
	if err != nil {
		return fmt.Errorf("conda install %s: %w: %s", spec, err, firstLine(out))
	}
	c.log.Debugf("conda installed %s", spec)
	return nil
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
