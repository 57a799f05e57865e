// pkg/manager/installer.go
package manager

import (
	"context"
	"fmt"

	"github.com/offlinekit/airlift/pkg/bundle"
	"github.com/offlinekit/airlift/pkg/registry"
	"github.com/offlinekit/airlift/pkg/report"
	"github.com/offlinekit/airlift/pkg/runlog"
)

// Installer applies the manifest in declared order, one package at a
// time. Per package it tries Primary then Secondary; a package both
// managers reject is recorded as failed and the batch continues, so the
// caller always gets one outcome per manifest entry. Packages are never
// reordered or parallelized: log output must be deterministic.
type Installer struct {
	Primary   Manager
	Secondary Manager
	Registry  *registry.Registry
	Log       *runlog.Log
}

// InstallAll processes every manifest entry and returns exactly one
// outcome per entry, in manifest order.
func (in *Installer) InstallAll(ctx context.Context, pkgs []bundle.PackageSpec) []report.PackageOutcome {
	outcomes := make([]report.PackageOutcome, 0, len(pkgs))
	for _, pkg := range pkgs {
		outcomes = append(outcomes, in.installOne(ctx, pkg))
	}
	return outcomes
}

func (in *Installer) installOne(ctx context.Context, pkg bundle.PackageSpec) report.PackageOutcome {
	outcome := report.PackageOutcome{
		Name:    pkg.Name,
		Version: pkg.Version,
		Status:  report.OutcomeFailed,
	}

	var attempts []string
	for _, m := range []Manager{in.Primary, in.Secondary} {
		if m == nil {
			continue
		}
		if !m.IsAvailable() {
			in.Log.Warnf("%s is not available in the installed runtime, skipping for %s", m.Name(), pkg.Name)
			attempts = append(attempts, m.Name()+" unavailable")
			continue
		}

		resolved := pkg
		resolved.Name = in.Registry.Resolve(pkg.Name, m.Name())

		in.Log.Infof("installing %s via %s", resolved, m.Name())
		if err := m.Install(ctx, resolved); err != nil {
			in.Log.Warnf("%s failed for %s: %v", m.Name(), pkg.Name, err)
			attempts = append(attempts, m.Name()+" failed")
			continue
		}

		// First success owns the package; the other manager is
		// never consulted.
		outcome.Manager = m.Name()
		outcome.Status = report.OutcomeInstalled
		in.Log.Infof("installed %s via %s", pkg.Name, m.Name())
		return outcome
	}

	outcome.Detail = detail(attempts)
	in.Log.Errorf("package %s could not be installed (%s), continuing", pkg.Name, outcome.Detail)
	return outcome
}

func detail(attempts []string) string {
	if len(attempts) == 0 {
		return "no package manager available"
	}
	s := attempts[0]
	for _, a := range attempts[1:] {
		s = fmt.Sprintf("%s, %s", s, a)
	}
	return s
}
