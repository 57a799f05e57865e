package airlift_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offlinekit/airlift"
	"github.com/offlinekit/airlift/pkg/bundle"
	"github.com/offlinekit/airlift/pkg/plan"
	"github.com/offlinekit/airlift/pkg/report"
)

// fakeRunner stands in for the runtime installer: it plants the entry
// point so the run can continue past the runtime stage.
type fakeRunner struct {
	fail bool
	runs int
}

func (f *fakeRunner) Run(_ context.Context, _ *bundle.Bundle, p *plan.InstallPlan) error {
	f.runs++
	if f.fail {
		return fmt.Errorf("running installer: %w: simulated", airlift.ErrRuntimeInstallFailed)
	}
	if err := os.MkdirAll(filepath.Join(p.Target, "bin"), 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(p.Target, "bin", "python"), []byte("#!/bin/sh\n"), 0755)
}

type fakeManager struct {
	name    string
	failing map[string]bool
}

func (f *fakeManager) Name() string      { return f.name }
func (f *fakeManager) IsAvailable() bool { return true }

func (f *fakeManager) Install(_ context.Context, pkg bundle.PackageSpec) error {
	if f.failing[pkg.Name] {
		return errors.New("simulated failure")
	}
	return nil
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, _ *plan.InstallPlan, _ []report.PackageOutcome) []report.Check {
	return []report.Check{{Name: "runtime version", OK: true, Detail: "Python 3.11.7"}}
}

func stagingDir(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "Miniconda3-test-Linux-x86_64.sh"), []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "packages.txt"), []byte(manifest), 0644))
	return dir
}

func baseOptions(t *testing.T, staging string) *airlift.Options {
	t.Helper()
	return &airlift.Options{
		StagingDir:     staging,
		Mode:           airlift.ModeCustom,
		Prefix:         filepath.Join(t.TempDir(), "runtime"),
		Silent:         true,
		SpaceThreshold: 1, // host-independent tests
		Runner:         &fakeRunner{},
		Primary:        &fakeManager{name: "conda"},
		Secondary:      &fakeManager{name: "pip"},
		Verifier:       fakeVerifier{},
	}
}

func TestRun_DryRunMutatesNothing(t *testing.T) {
	staging := stagingDir(t, "numpy==1.26.4\npandas\n")
	opts := baseOptions(t, staging)
	opts.DryRun = true
	runner := &fakeRunner{}
	opts.Runner = runner

	rep, err := airlift.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, rep.DryRun)
	assert.Equal(t, report.StatusSuccess, rep.Status)
	require.Len(t, rep.Packages, 2)
	assert.Equal(t, "numpy", rep.Packages[0].Name)
	assert.Equal(t, "pandas", rep.Packages[1].Name)
	for _, o := range rep.Packages {
		assert.Equal(t, report.OutcomePlanned, o.Status)
	}

	assert.Zero(t, runner.runs, "dry run must not execute the installer")
	_, statErr := os.Stat(opts.Prefix)
	assert.True(t, os.IsNotExist(statErr), "dry run must not create the target")
}

func TestRun_PlanDeterminism(t *testing.T) {
	staging := stagingDir(t, "numpy\npandas\n")
	opts := baseOptions(t, staging)
	opts.DryRun = true

	first, err := airlift.Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := airlift.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.Target, second.Target)
	assert.Equal(t, first.Packages, second.Packages)
}

func TestRun_PartialSuccess(t *testing.T) {
	staging := stagingDir(t, "numpy\npandas\nbroken-pkg\n")
	opts := baseOptions(t, staging)
	opts.Primary = &fakeManager{name: "conda", failing: map[string]bool{"broken-pkg": true}}
	opts.Secondary = &fakeManager{name: "pip", failing: map[string]bool{"broken-pkg": true}}

	rep, err := airlift.Run(context.Background(), opts)
	require.NoError(t, err, "per-package failures never abort the batch")

	assert.Equal(t, report.StatusPartial, rep.Status)
	installed, failed, _ := report.Counts(rep.Packages)
	assert.Equal(t, 2, installed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, airlift.ExitCode(err), "partial success still exits 0")

	// Activation script is part of a completed run.
	_, statErr := os.Stat(filepath.Join(opts.Prefix, "etc", "activate.sh"))
	assert.NoError(t, statErr)
}

func TestRun_SilentCollisionAborts(t *testing.T) {
	staging := stagingDir(t, "numpy\n")
	opts := baseOptions(t, staging)
	require.NoError(t, os.MkdirAll(filepath.Join(opts.Prefix, "bin"), 0755))
	marker := filepath.Join(opts.Prefix, "bin", "python")
	require.NoError(t, os.WriteFile(marker, []byte("old install"), 0755))

	rep, err := airlift.Run(context.Background(), opts)
	require.Error(t, err)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, airlift.ErrExistingInstallation)
	assert.Equal(t, airlift.ExitExistingInstallation, airlift.ExitCode(err))

	data, readErr := os.ReadFile(marker)
	require.NoError(t, readErr)
	assert.Equal(t, "old install", string(data), "abort must not delete anything")
}

func TestRun_ForceReplacesExistingInstall(t *testing.T) {
	staging := stagingDir(t, "numpy\n")
	opts := baseOptions(t, staging)
	opts.Force = true
	require.NoError(t, os.MkdirAll(filepath.Join(opts.Prefix, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(opts.Prefix, "bin", "python"), []byte("old install"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(opts.Prefix, "leftover"), []byte("stale"), 0644))

	rep, err := airlift.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, report.StatusSuccess, rep.Status)

	data, err := os.ReadFile(filepath.Join(opts.Prefix, "bin", "python"))
	require.NoError(t, err)
	assert.NotEqual(t, "old install", string(data), "old runtime must be gone")
	_, statErr := os.Stat(filepath.Join(opts.Prefix, "leftover"))
	assert.True(t, os.IsNotExist(statErr), "no artifact from the deleted install survives")
}

func TestRun_RuntimeFailureIsFatal(t *testing.T) {
	staging := stagingDir(t, "numpy\n")
	opts := baseOptions(t, staging)
	opts.Runner = &fakeRunner{fail: true}

	rep, err := airlift.Run(context.Background(), opts)
	require.Error(t, err)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, airlift.ErrRuntimeInstallFailed)
	assert.Equal(t, airlift.ExitRuntimeInstallFailed, airlift.ExitCode(err))
}

func TestRun_MissingBundle(t *testing.T) {
	opts := baseOptions(t, t.TempDir())

	_, err := airlift.Run(context.Background(), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, airlift.ErrBundleNotFound)
	assert.Equal(t, airlift.ExitBundleNotFound, airlift.ExitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, airlift.ExitOK},
		{airlift.ErrInvalidMode, airlift.ExitInvalidMode},
		{airlift.ErrBundleNotFound, airlift.ExitBundleNotFound},
		{airlift.ErrInsufficientPrivilege, airlift.ExitInsufficientPrivilege},
		{airlift.ErrExistingInstallation, airlift.ExitExistingInstallation},
		{airlift.ErrUserCancelled, airlift.ExitUserCancelled},
		{airlift.ErrInsufficientDiskSpace, airlift.ExitInsufficientDiskSpace},
		{airlift.ErrRuntimeInstallFailed, airlift.ExitRuntimeInstallFailed},
		{errors.New("anything else"), airlift.ExitFailure},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, airlift.ExitCode(tt.err))
	}

	// Wrapped errors classify the same way.
	wrapped := fmt.Errorf("resolving target: %w", airlift.ErrInsufficientPrivilege)
	assert.Equal(t, airlift.ExitInsufficientPrivilege, airlift.ExitCode(wrapped))
}
