package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
	"github.com/mvre-project/mvre-hub/internal/core/templates"
)

// Start builds the hub and user images and brings the services up.
func (o *Orchestrator) Start(ctx context.Context, explicitDir string) error {
	dir, err := o.begin(domain.CommandStart, explicitDir, false)
	if err != nil {
		return err
	}

	build := append([]string{"build"}, templates.BuildServices()...)
	if err := o.compose.Run(ctx, dir, build...); err != nil {
		return fmt.Errorf("build images: %w", err)
	}
	up := append([]string{"up", "-d"}, templates.StartServices()...)
	if err := o.compose.Run(ctx, dir, up...); err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	o.printf("Services started\n")
	o.printf("Using deployment at %s\n", dir)

	o.state.RecordUse(dir)
	return o.finish(domain.CommandStart)
}

// Stop brings the services down.
func (o *Orchestrator) Stop(ctx context.Context, explicitDir string) error {
	dir, err := o.begin(domain.CommandStop, explicitDir, false)
	if err != nil {
		return err
	}

	if err := o.compose.Run(ctx, dir, "down"); err != nil {
		return fmt.Errorf("stop services: %w", err)
	}

	o.printf("Services stopped\n")
	o.printf("Using deployment at %s\n", dir)

	o.state.RecordUse(dir)
	return o.finish(domain.CommandStop)
}

// Status returns the service listing of the orchestration tool verbatim.
// It does not change the state.
func (o *Orchestrator) Status(ctx context.Context, explicitDir string) (string, error) {
	dir, err := o.begin(domain.CommandStatus, explicitDir, false)
	if err != nil {
		return "", err
	}

	out, err := o.compose.Output(ctx, dir, "ps")
	if err != nil {
		return "", fmt.Errorf("query status: %w", err)
	}
	return out, o.finish(domain.CommandStatus)
}

// Clean tears the deployment down, deletes its images and volumes, removes
// the directory and the boot unit. Without confirmed it fails with
// domain.ErrSafetyLockEngaged and does nothing else.
func (o *Orchestrator) Clean(ctx context.Context, explicitDir string, confirmed bool) error {
	dir, err := o.begin(domain.CommandClean, explicitDir, confirmed)
	if err != nil {
		return err
	}

	if err := o.compose.Run(ctx, dir, "down", "-v", "--rmi", "all"); err != nil {
		return fmt.Errorf("stop services before cleanup: %w", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	o.logger.Info("deployment removed", "dir", dir)

	if o.service != nil && o.service.Privileged() {
		if err := o.service.Remove(); err != nil {
			o.logger.Warn("could not remove service unit", "error", err)
		}
	}

	o.printf("Environment cleared\n")

	if sameDir(o.state.LastDeployDir, dir) {
		o.state.ClearDeployDir()
	}
	return o.finish(domain.CommandClean)
}

func sameDir(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
