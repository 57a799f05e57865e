// Package airlift installs pre-staged runtime bundles on
// network-isolated hosts. A bundle is a directory holding a runtime
// installer artifact plus an ordered package manifest; Run drives it
// through probing, target resolution, collision handling, the runtime
// installer, per-package installation with a fallback manager, and a
// final verification, producing one immutable report.
package airlift

import (
	"context"
	"time"

	"github.com/offlinekit/airlift/pkg/bundle"
	"github.com/offlinekit/airlift/pkg/collision"
	"github.com/offlinekit/airlift/pkg/env"
	"github.com/offlinekit/airlift/pkg/hostinfo"
	"github.com/offlinekit/airlift/pkg/manager"
	"github.com/offlinekit/airlift/pkg/plan"
	"github.com/offlinekit/airlift/pkg/registry"
	"github.com/offlinekit/airlift/pkg/report"
	"github.com/offlinekit/airlift/pkg/runlog"
	"github.com/offlinekit/airlift/pkg/runner"
	"github.com/offlinekit/airlift/pkg/verify"
)

// Re-export commonly used types for convenience.
type (
	InstallPlan        = plan.InstallPlan
	Mode               = plan.Mode
	Bundle             = bundle.Bundle
	PackageSpec        = bundle.PackageSpec
	InstallationReport = report.InstallationReport
	PackageOutcome     = report.PackageOutcome
)

// Re-export install modes.
const (
	ModeUser   = plan.ModeUser
	ModeSystem = plan.ModeSystem
	ModeCustom = plan.ModeCustom
)

// RuntimeRunner installs the runtime artifact. Satisfied by
// runner.Runner; replaceable in tests.
type RuntimeRunner interface {
	Run(ctx context.Context, b *bundle.Bundle, p *plan.InstallPlan) error
}

// Verifier smoke-tests the finished install. Satisfied by
// verify.Verifier; replaceable in tests.
type Verifier interface {
	Verify(ctx context.Context, p *plan.InstallPlan, outcomes []report.PackageOutcome) []report.Check
}

// Options configures one run. Zero-value fields fall back to real
// implementations; the override fields exist so the orchestration can
// be exercised without touching a live system.
type Options struct {
	StagingDir string
	Mode       plan.Mode
	Prefix     string
	Silent     bool
	Force      bool
	DryRun     bool

	// SpaceThreshold overrides the free-space requirement (bytes).
	SpaceThreshold uint64
	// AbortOnUnknownSpace escalates an unmeasurable disk to a fatal error.
	AbortOnUnknownSpace bool

	// Log receives the durable trail. Defaults to a discard logger;
	// the CLI opens a real one in the staging directory.
	Log *runlog.Log

	// Prompter answers the collision question in interactive mode.
	Prompter collision.Prompter

	// Runner, Primary, Secondary and Verifier override the real
	// runtime installer, package managers and verifier.
	Runner    RuntimeRunner
	Primary   manager.Manager
	Secondary manager.Manager
	Verifier  Verifier
}

// Run executes one installation end to end and returns the report. A
// fatal error returns (nil, err); the error kind maps to an exit code
// via ExitCode. Components run strictly in sequence and each appends to
// the durable log as it goes.
func Run(ctx context.Context, opts *Options) (*report.InstallationReport, error) {
	if opts == nil || opts.StagingDir == "" {
		return nil, &Error{Op: "run", Err: ErrBundleNotFound}
	}

	log := opts.Log
	if log == nil {
		log = runlog.Discard()
	}
	start := time.Now()

	req := plan.Request{
		Mode:                opts.Mode,
		Prefix:              opts.Prefix,
		Silent:              opts.Silent,
		Force:               opts.Force,
		DryRun:              opts.DryRun,
		SpaceThreshold:      opts.SpaceThreshold,
		AbortOnUnknownSpace: opts.AbortOnUnknownSpace,
	}

	// Mode validity and privilege are checked before anything touches
	// the filesystem, so this failure repeats with no side effects.
	target, err := plan.TargetFor(req)
	if err != nil {
		return nil, err
	}

	caps := hostinfo.Probe(target)
	log.Infof("host: %s", caps)

	p, warnings, err := plan.Resolve(req, caps)
	if err != nil {
		return nil, err
	}
	warnings = append(caps.Warnings, warnings...)
	log.Infof("plan: mode=%s target=%s silent=%v force=%v dry-run=%v",
		p.Mode, p.Target, p.Silent, p.Force, p.DryRun)

	b, err := bundle.Locate(opts.StagingDir)
	if err != nil {
		log.Errorf("locating bundle: %v", err)
		return nil, err
	}
	log.Infof("bundle: installer=%s manifest=%s packages=%d",
		b.InstallerPath, b.ManifestPath, len(b.Packages))

	reg, err := registry.Load(b.AliasPath)
	if err != nil {
		// A broken alias table degrades to identity resolution.
		log.Warnf("loading alias table: %v", err)
		warnings = append(warnings, "alias table unreadable, using package names verbatim")
		reg = &registry.Registry{}
	}

	if p.DryRun {
		log.Infof("dry run: stopping before any mutation")
		return dryRunReport(p, b, caps, warnings, log, start), nil
	}

	if err := collision.Resolve(p, opts.Prompter, log); err != nil {
		log.Errorf("collision: %v", err)
		return nil, err
	}

	run := opts.Runner
	if run == nil {
		run = runner.New(log)
	}
	if err := run.Run(ctx, b, p); err != nil {
		log.Errorf("runtime install: %v", err)
		return nil, err
	}

	primary, secondary := opts.Primary, opts.Secondary
	if primary == nil {
		primary = manager.NewConda(p, b, log)
	}
	if secondary == nil {
		secondary = manager.NewPip(p, b, log)
	}
	installer := &manager.Installer{
		Primary:   primary,
		Secondary: secondary,
		Registry:  reg,
		Log:       log,
	}
	outcomes := installer.InstallAll(ctx, b.Packages)

	if path, err := env.WriteActivation(p.Target); err != nil {
		log.Warnf("activation script: %v", err)
		warnings = append(warnings, "activation script could not be written")
	} else {
		log.Infof("activation script written to %s", path)
	}

	verifier := opts.Verifier
	if verifier == nil {
		verifier = verify.New(reg, log)
	}
	checks := verifier.Verify(ctx, p, outcomes)

	rep := &report.InstallationReport{
		Status:    report.Summarize(outcomes),
		Target:    p.Target,
		Installer: b.InstallerPath,
		Host:      caps,
		Packages:  outcomes,
		Checks:    checks,
		Warnings:  warnings,
		LogPath:   log.Path(),
		Elapsed:   time.Since(start),
	}
	log.Infof("run finished: status=%s elapsed=%s", rep.Status, rep.Elapsed)
	return rep, nil
}

// dryRunReport renders the plan without mutating the host: the same
// report shape, every package marked planned in manifest order.
func dryRunReport(p *plan.InstallPlan, b *bundle.Bundle, caps *hostinfo.Capabilities,
	warnings []string, log *runlog.Log, start time.Time) *report.InstallationReport {

	outcomes := make([]report.PackageOutcome, 0, len(b.Packages))
	for _, pkg := range b.Packages {
		outcomes = append(outcomes, report.PackageOutcome{
			Name:    pkg.Name,
			Version: pkg.Version,
			Status:  report.OutcomePlanned,
		})
	}

	return &report.InstallationReport{
		Status:    report.StatusSuccess,
		DryRun:    true,
		Target:    p.Target,
		Installer: b.InstallerPath,
		Host:      caps,
		Packages:  outcomes,
		Warnings:  warnings,
		LogPath:   log.Path(),
		Elapsed:   time.Since(start),
	}
}
