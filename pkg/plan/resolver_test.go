package plan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offlinekit/airlift/pkg/hostinfo"
)

func withElevation(t *testing.T, value bool) {
	t.Helper()
	restore := elevated
	elevated = func() bool { return value }
	t.Cleanup(func() { elevated = restore })
}

func plentyOfSpace() *hostinfo.Capabilities {
	return &hostinfo.Capabilities{Space: hostinfo.KnownSpace(100 << 30)}
}

func TestResolve_UserMode(t *testing.T) {
	home := t.TempDir()
	t.Setenv("AIRLIFT_INSTALL_PATH", "")
	t.Setenv("HOME", home)

	p, warnings, err := Resolve(Request{Mode: ModeUser}, plentyOfSpace())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".airlift"), p.Target)
	assert.Empty(t, warnings)
}

func TestResolve_UserModeEnvOverride(t *testing.T) {
	t.Setenv("AIRLIFT_INSTALL_PATH", "/srv/runtime")

	p, _, err := Resolve(Request{Mode: ModeUser}, plentyOfSpace())
	require.NoError(t, err)
	assert.Equal(t, "/srv/runtime", p.Target)
}

func TestResolve_SystemModeWithoutPrivilege(t *testing.T) {
	withElevation(t, false)

	_, _, err := Resolve(Request{Mode: ModeSystem}, plentyOfSpace())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientPrivilege)

	// Failure is idempotent: same error again, nothing changed.
	_, _, err2 := Resolve(Request{Mode: ModeSystem}, plentyOfSpace())
	assert.ErrorIs(t, err2, ErrInsufficientPrivilege)
}

func TestResolve_SystemModeWithPrivilege(t *testing.T) {
	withElevation(t, true)

	p, _, err := Resolve(Request{Mode: ModeSystem}, plentyOfSpace())
	require.NoError(t, err)
	assert.NotEmpty(t, p.Target)
	assert.Equal(t, ModeSystem, p.Mode)
}

func TestResolve_CustomModeVerbatim(t *testing.T) {
	// No existence check here: that is the collision handler's job.
	p, _, err := Resolve(Request{Mode: ModeCustom, Prefix: "/does/not/exist/yet"}, plentyOfSpace())
	require.NoError(t, err)
	assert.Equal(t, "/does/not/exist/yet", p.Target)
}

func TestResolve_CustomModeRequiresPrefix(t *testing.T) {
	_, _, err := Resolve(Request{Mode: ModeCustom}, plentyOfSpace())
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestResolve_UnknownMode(t *testing.T) {
	_, _, err := Resolve(Request{Mode: Mode("cloud")}, plentyOfSpace())
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestResolve_InsufficientSpaceIsFatal(t *testing.T) {
	caps := &hostinfo.Capabilities{Space: hostinfo.KnownSpace(1 << 30)}

	_, _, err := Resolve(Request{Mode: ModeCustom, Prefix: "/x"}, caps)
	assert.ErrorIs(t, err, ErrInsufficientDiskSpace)
}

func TestResolve_UnknownSpaceIsWarningOnly(t *testing.T) {
	caps := &hostinfo.Capabilities{Space: hostinfo.UnknownSpace()}

	p, warnings, err := Resolve(Request{Mode: ModeCustom, Prefix: "/x"}, caps)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "could not be measured")
}

func TestResolve_UnknownSpaceAbortPolicy(t *testing.T) {
	caps := &hostinfo.Capabilities{Space: hostinfo.UnknownSpace()}

	_, _, err := Resolve(Request{Mode: ModeCustom, Prefix: "/x", AbortOnUnknownSpace: true}, caps)
	assert.ErrorIs(t, err, ErrInsufficientDiskSpace)
}

func TestResolve_CustomThreshold(t *testing.T) {
	caps := &hostinfo.Capabilities{Space: hostinfo.KnownSpace(10 << 20)}

	p, _, err := Resolve(Request{Mode: ModeCustom, Prefix: "/x", SpaceThreshold: 1 << 20}, caps)
	require.NoError(t, err)
	assert.Equal(t, "/x", p.Target)
}

func TestResolve_Deterministic(t *testing.T) {
	// A dry run and the real run that follows must agree on the target.
	dry, _, err := Resolve(Request{Mode: ModeCustom, Prefix: "/srv/py", DryRun: true}, plentyOfSpace())
	require.NoError(t, err)
	wet, _, err := Resolve(Request{Mode: ModeCustom, Prefix: "/srv/py"}, plentyOfSpace())
	require.NoError(t, err)
	assert.Equal(t, dry.Target, wet.Target)
}

func TestBin(t *testing.T) {
	p := &InstallPlan{Target: "/opt/airlift"}
	assert.Equal(t, filepath.Join("/opt/airlift", "bin", "python"), p.Bin("python"))
	assert.Equal(t, filepath.Join("/opt/airlift", "bin", "conda"), p.Bin("conda"))
}
