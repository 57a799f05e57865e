// Package verify smoke-tests a finished installation: the runtime must
// answer a version query and a representative installed package must
// import. Failures here are advisory — a mismatched package name must
// not turn a usable install into a reported hard failure.
package verify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/offlinekit/airlift/pkg/plan"
	"github.com/offlinekit/airlift/pkg/registry"
	"github.com/offlinekit/airlift/pkg/report"
	"github.com/offlinekit/airlift/pkg/runlog"
)

// Execer runs an external command and returns its combined output.
type Execer interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type systemExecer struct{}

func (systemExecer) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Verifier runs the post-install checks.
type Verifier struct {
	Exec     Execer
	Registry *registry.Registry
	Log      *runlog.Log
}

// New builds a Verifier shelling out to the real system.
func New(reg *registry.Registry, log *runlog.Log) *Verifier {
	return &Verifier{Exec: systemExecer{}, Registry: reg, Log: log}
}

// Verify checks the installed runtime and one representative package.
// It always returns a result; nothing here is fatal.
func (v *Verifier) Verify(ctx context.Context, p *plan.InstallPlan, outcomes []report.PackageOutcome) []report.Check {
	checks := []report.Check{v.checkRuntime(ctx, p)}

	if c, ok := v.checkImport(ctx, p, outcomes); ok {
		checks = append(checks, c)
	}

	for _, c := range checks {
		if c.OK {
			v.Log.Infof("verify: %s ok (%s)", c.Name, c.Detail)
		} else {
			v.Log.Warnf("verify: %s failed (%s)", c.Name, c.Detail)
		}
	}
	return checks
}

func (v *Verifier) checkRuntime(ctx context.Context, p *plan.InstallPlan) report.Check {
	out, err := v.Exec.Run(ctx, p.Bin("python"), "--version")
	version := strings.TrimSpace(string(out))
	if err != nil {
		return report.Check{
			Name:   "runtime version",
			Detail: fmt.Sprintf("%s --version: %v", p.Bin("python"), err),
		}
	}
	if version == "" {
		return report.Check{Name: "runtime version", Detail: "version query produced no output"}
	}
	return report.Check{Name: "runtime version", OK: true, Detail: version}
}

// checkImport loads the first successfully installed package. No
// installed package means nothing representative to test, so the check
// is skipped rather than failed.
func (v *Verifier) checkImport(ctx context.Context, p *plan.InstallPlan, outcomes []report.PackageOutcome) (report.Check, bool) {
	for _, o := range outcomes {
		if o.Status != report.OutcomeInstalled {
			continue
		}
		module := v.Registry.Module(o.Name)
		name := fmt.Sprintf("import %s", module)
		if _, err := v.Exec.Run(ctx, p.Bin("python"), "-c", "import "+module); err != nil {
			return report.Check{Name: name, Detail: err.Error()}, true
		}
		return report.Check{Name: name, OK: true, Detail: "module loads"}, true
	}
	return report.Check{}, false
}
