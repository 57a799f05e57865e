// pkg/manager/pip.go
package manager

import (
	"context"
	"fmt"
	"os"

	"github.com/offlinekit/airlift/pkg/bundle"
	"github.com/offlinekit/airlift/pkg/plan"
	"github.com/offlinekit/airlift/pkg/runlog"
)

// Pip is the secondary manager, tried when conda cannot install a
// package. --no-index keeps it off the network; wheels come from the
// bundle's wheel directory.
type Pip struct {
	plan   *plan.InstallPlan
	bundle *bundle.Bundle
	exec   Execer
	log    *runlog.Log
}

// NewPip builds the pip manager for an installed runtime tree.
func NewPip(p *plan.InstallPlan, b *bundle.Bundle, log *runlog.Log) *Pip {
	return &Pip{plan: p, bundle: b, exec: systemExecer{}, log: log}
}

// Name implements Manager.
func (p *Pip) Name() string { return "pip" }

// IsAvailable implements Manager.
func (p *Pip) IsAvailable() bool {
	_, err := os.Stat(p.plan.Bin("pip"))
	return err == nil
}

// Install implements Manager.
func (p *Pip) Install(ctx context.Context, pkg bundle.PackageSpec) error {
	spec := pkg.String() // pip takes name==version

	args := []string{"install", "--no-index"}
	if p.bundle.WheelDir != "" {
		args = append(args, "--find-links", p.bundle.WheelDir)
	}
	args = append(args, spec)

	out, err := p.exec.Run(ctx, p.plan.Bin("pip"), args...)
	if err != nil {
		return fmt.Errorf("pip install %s: %w: %s", spec, err, firstLine(out))
	}
	p.log.Debugf("pip installed %s", spec)
	return nil
}
