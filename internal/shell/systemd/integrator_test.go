package systemd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
	"github.com/mvre-project/mvre-hub/internal/shell/exectool"
)

// fakeRunner records invocations and fails on the configured subcommand.
type fakeRunner struct {
	calls  []string
	failOn string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) error {
	call := strings.Join(args, " ")
	f.calls = append(f.calls, call)
	if f.failOn != "" && args[0] == f.failOn {
		return &exectool.ToolError{Op: "systemctl", Args: args, ExitCode: 1}
	}
	return nil
}

func (f *fakeRunner) Output(ctx context.Context, dir string, args ...string) (string, error) {
	return "", f.Run(ctx, dir, args...)
}

func newIntegrator(t *testing.T, privileged bool) (*Integrator, *fakeRunner) {
	t.Helper()
	runner := &fakeRunner{}
	return &Integrator{
		UnitPath:       filepath.Join(t.TempDir(), "system", "mvre-hub.service"),
		UnitName:       "mvre-hub",
		ComposeCommand: []string{"docker-compose"},
		User:           "hub",
		Systemctl:      runner,
		IsPrivileged:   func() bool { return privileged },
	}, runner
}

func TestInstall(t *testing.T) {
	i, runner := newIntegrator(t, true)

	require.NoError(t, i.Install(context.Background(), "/srv/mvre-hub"))

	data, err := os.ReadFile(i.UnitPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WorkingDirectory=/srv/mvre-hub")
	assert.Contains(t, string(data), "User=hub")
	assert.Equal(t, []string{"daemon-reload", "enable mvre-hub"}, runner.calls)
}

func TestInstall_Unprivileged(t *testing.T) {
	i, runner := newIntegrator(t, false)

	err := i.Install(context.Background(), "/srv/mvre-hub")
	require.ErrorIs(t, err, domain.ErrPrivilegeRequired)

	assert.NoFileExists(t, i.UnitPath)
	assert.Empty(t, runner.calls)
}

func TestInstall_ReloadFails(t *testing.T) {
	i, runner := newIntegrator(t, true)
	runner.failOn = "daemon-reload"

	err := i.Install(context.Background(), "/srv/mvre-hub")
	require.ErrorIs(t, err, domain.ErrExternalToolFailure)
	assert.Contains(t, err.Error(), "reload systemd")
	assert.Equal(t, []string{"daemon-reload"}, runner.calls)
}

func TestInstall_EnableFails(t *testing.T) {
	i, runner := newIntegrator(t, true)
	runner.failOn = "enable"

	err := i.Install(context.Background(), "/srv/mvre-hub")
	require.ErrorIs(t, err, domain.ErrExternalToolFailure)
	assert.Contains(t, err.Error(), "enable service mvre-hub")
}

func TestInstall_DefaultUser(t *testing.T) {
	i, _ := newIntegrator(t, true)
	i.User = ""

	require.NoError(t, i.Install(context.Background(), "/srv/mvre-hub"))

	data, err := os.ReadFile(i.UnitPath)
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^User=\S+$`, string(data))
}

func TestRemove(t *testing.T) {
	i, _ := newIntegrator(t, true)
	require.NoError(t, os.MkdirAll(filepath.Dir(i.UnitPath), 0o755))
	require.NoError(t, os.WriteFile(i.UnitPath, []byte("[Unit]\n"), 0o644))

	require.NoError(t, i.Remove())
	assert.NoFileExists(t, i.UnitPath)
}

func TestRemove_Missing(t *testing.T) {
	i, _ := newIntegrator(t, true)
	assert.NoError(t, i.Remove())
}

func TestPrivileged_Default(t *testing.T) {
	i := &Integrator{}
	assert.Equal(t, os.Geteuid() == 0, i.Privileged())
}
