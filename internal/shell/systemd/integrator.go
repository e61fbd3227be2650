// Package systemd installs and removes the boot unit that runs a deployment.
package systemd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
	coresystemd "github.com/mvre-project/mvre-hub/internal/core/systemd"
	"github.com/mvre-project/mvre-hub/internal/shell/atomicfile"
	"github.com/mvre-project/mvre-hub/internal/shell/exectool"
)

const unitPerm os.FileMode = 0o644

// Integrator manages the boot unit.
type Integrator struct {
	// UnitPath is where the unit file is written.
	UnitPath string

	// UnitName is passed to systemctl enable.
	UnitName string

	// ComposeCommand is the orchestration tool the unit invokes.
	ComposeCommand []string

	// User runs the services. Empty means the current user.
	User string

	// Systemctl runs systemctl.
	Systemctl exectool.Runner

	// IsPrivileged reports whether the process may modify the service
	// manager. Defaults to IsRoot.
	IsPrivileged func() bool

	Logger *slog.Logger
}

// IsRoot reports whether the effective user is root.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// Privileged reports whether Install would pass its privilege check.
func (i *Integrator) Privileged() bool {
	if i.IsPrivileged == nil {
		return IsRoot()
	}
	return i.IsPrivileged()
}

// Install writes the unit for deployDir, reloads the service manager and
// enables the unit. Without privileges it fails with
// domain.ErrPrivilegeRequired before doing anything.
func (i *Integrator) Install(ctx context.Context, deployDir string) error {
	if !i.Privileged() {
		return fmt.Errorf("install service: %w", domain.ErrPrivilegeRequired)
	}

	runAs, err := i.serviceUser()
	if err != nil {
		return fmt.Errorf("install service: %w", err)
	}

	unit := coresystemd.RenderUnit(coresystemd.UnitParams{
		DeployDir:      deployDir,
		User:           runAs,
		ComposeCommand: i.ComposeCommand,
	})
	if err := atomicfile.WriteFile(i.UnitPath, []byte(unit), unitPerm); err != nil {
		return fmt.Errorf("write unit %s: %w", i.UnitPath, err)
	}
	i.logger().Debug("unit written", "path", i.UnitPath, "user", runAs)

	if err := i.Systemctl.Run(ctx, "", "daemon-reload"); err != nil {
		return fmt.Errorf("reload systemd: %w", err)
	}
	if err := i.Systemctl.Run(ctx, "", "enable", i.UnitName); err != nil {
		return fmt.Errorf("enable service %s: %w", i.UnitName, err)
	}

	i.logger().Info("service installed", "unit", i.UnitName, "dir", deployDir)
	return nil
}

// Remove deletes the unit file. A missing unit is not an error.
func (i *Integrator) Remove() error {
	err := os.Remove(i.UnitPath)
	if err == nil {
		i.logger().Info("service removed", "path", i.UnitPath)
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("remove unit %s: %w", i.UnitPath, err)
}

func (i *Integrator) serviceUser() (string, error) {
	if i.User != "" {
		return i.User, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("look up current user: %w", err)
	}
	return u.Username, nil
}

func (i *Integrator) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return i.Logger
}
