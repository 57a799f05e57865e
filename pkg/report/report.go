// Package report accumulates the outcome of a run into the single
// artifact handed back to the caller, and renders it as text.
package report

import (
	"time"

	"github.com/offlinekit/airlift/pkg/hostinfo"
)

// Status is the overall health of a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial-success"
	StatusFailed  Status = "failed"
)

// OutcomeStatus is the fate of a single manifest entry.
type OutcomeStatus string

const (
	// OutcomeInstalled means exactly one manager installed the package.
	OutcomeInstalled OutcomeStatus = "installed"
	// OutcomeFailed means both managers failed (or none was available).
	OutcomeFailed OutcomeStatus = "failed"
	// OutcomePlanned marks dry-run entries.
	OutcomePlanned OutcomeStatus = "planned"
)

// PackageOutcome records what happened to one manifest entry. Manager
// names the manager that owns the install ("" when none succeeded or
// during a dry run); a package is never owned by more than one manager.
type PackageOutcome struct {
	Name    string
	Version string
	Manager string
	Status  OutcomeStatus
	Detail  string
}

// Check is one verification result. Failures are advisory.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// InstallationReport is created at run end and never mutated after.
type InstallationReport struct {
	Status    Status
	DryRun    bool
	Target    string
	Installer string
	Host      *hostinfo.Capabilities
	Packages  []PackageOutcome
	Checks    []Check
	Warnings  []string
	LogPath   string
	Elapsed   time.Duration
}

// Summarize folds per-package outcomes into the overall status. The
// runtime install failing never reaches here (that aborts the run), so
// any mix of failures alongside a healthy runtime is a partial success:
// the caller gets a complete picture and exit code 0.
func Summarize(outcomes []PackageOutcome) Status {
	failed := 0
	for _, o := range outcomes {
		if o.Status == OutcomeFailed {
			failed++
		}
	}
	if failed == 0 {
		return StatusSuccess
	}
	return StatusPartial
}

// Counts returns how many outcomes landed in each state.
func Counts(outcomes []PackageOutcome) (installed, failed, planned int) {
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeInstalled:
			installed++
		case OutcomeFailed:
			failed++
		case OutcomePlanned:
			planned++
		}
	}
	return
}
