package collision

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offlinekit/airlift/pkg/plan"
	"github.com/offlinekit/airlift/pkg/runlog"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
		force  bool
		silent bool
		want   Action
	}{
		{"no existing install", false, false, false, Proceed},
		{"no existing install, force set", false, true, true, Proceed},
		{"existing, force", true, true, false, Replace},
		{"existing, force wins over silent", true, true, true, Replace},
		{"existing, silent, no force", true, false, true, AbortExisting},
		{"existing, interactive", true, false, false, Ask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.exists, tt.force, tt.silent))
		})
	}
}

// existingInstall creates a populated target directory and returns its
// path plus a snapshot of its contents.
func existingInstall(t *testing.T) (string, []string) {
	t.Helper()
	target := filepath.Join(t.TempDir(), "runtime")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "bin", "python"), []byte("old"), 0755))
	return target, snapshot(t, target)
}

func snapshot(t *testing.T, dir string) []string {
	t.Helper()
	var entries []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		entries = append(entries, path)
		return nil
	})
	require.NoError(t, err)
	return entries
}

type fakePrompter struct {
	answer bool
	asked  int
}

func (f *fakePrompter) Confirm(string) (bool, error) {
	f.asked++
	return f.answer, nil
}

func TestResolve_SilentAbortsWithoutTouchingTarget(t *testing.T) {
	target, before := existingInstall(t)
	p := &plan.InstallPlan{Target: target, Silent: true}

	err := Resolve(p, nil, runlog.Discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExistingInstallation)
	assert.Equal(t, before, snapshot(t, target), "abort must leave the target untouched")
}

func TestResolve_PromptDeclinedLeavesTargetIntact(t *testing.T) {
	target, before := existingInstall(t)
	p := &plan.InstallPlan{Target: target}
	prompter := &fakePrompter{answer: false}

	err := Resolve(p, prompter, runlog.Discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserCancelled)
	assert.Equal(t, 1, prompter.asked)
	assert.Equal(t, before, snapshot(t, target))
}

func TestResolve_PromptAcceptedDeletesTarget(t *testing.T) {
	target, _ := existingInstall(t)
	p := &plan.InstallPlan{Target: target}
	prompter := &fakePrompter{answer: true}

	require.NoError(t, Resolve(p, prompter, runlog.Discard()))
	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestResolve_ForceDeletesWithoutPrompting(t *testing.T) {
	target, _ := existingInstall(t)
	p := &plan.InstallPlan{Target: target, Force: true}
	prompter := &fakePrompter{answer: false}

	require.NoError(t, Resolve(p, prompter, runlog.Discard()))
	assert.Equal(t, 0, prompter.asked)
	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestResolve_NoExistingInstall(t *testing.T) {
	p := &plan.InstallPlan{Target: filepath.Join(t.TempDir(), "fresh")}

	require.NoError(t, Resolve(p, &fakePrompter{}, runlog.Discard()))
}

func TestExists_EmptyDirDoesNotCount(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "missing")))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), nil, 0644))
	assert.True(t, Exists(dir))
}

func TestTerminalPrompter(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"whatever\n", false},
	}

	for _, tt := range tests {
		var out strings.Builder
		p := NewTerminalPrompter(strings.NewReader(tt.input), &out)
		ok, err := p.Confirm("replace?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "input %q", tt.input)
		assert.Contains(t, out.String(), "replace?")
	}
}
