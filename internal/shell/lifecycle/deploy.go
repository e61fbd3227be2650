package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mvre-project/mvre-hub/internal/core/deployment"
	"github.com/mvre-project/mvre-hub/internal/core/domain"
	"github.com/mvre-project/mvre-hub/internal/shell/synth"
)

// DeployRequest holds the deploy switches. Everything else is asked from
// Source.
type DeployRequest struct {
	Force               bool
	Production          bool
	InstallNotebooks    bool
	AllowMissingDataset bool
	NoSystemd           bool

	// Source answers the deployment directory, the inputs and the
	// autostart question.
	Source deployment.ValueSource
}

// Deploy writes a new deployment, records it in the state and optionally
// installs the boot unit.
func (o *Orchestrator) Deploy(ctx context.Context, req DeployRequest) (*synth.Artifacts, error) {
	defaultDir := o.state.LastDeployDir
	if defaultDir == "" {
		defaultDir = o.defaultDir
	}
	dir, err := deployment.Ask(req.Source, deployment.DeployDirQuestion(defaultDir))
	if err != nil {
		return nil, err
	}
	target, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	// Fail before asking for secrets the operator would have to retype.
	if pathExists(target) && !req.Force {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeploymentExists, target)
	}

	inputs, err := deployment.Collect(req.Source, deployment.CollectOptions{
		Production:          req.Production,
		InstallNotebooks:    req.InstallNotebooks,
		AllowMissingDataset: req.AllowMissingDataset,
		DefaultDomain:       o.state.LastDomain,
	})
	if err != nil {
		return nil, err
	}

	arts, err := o.synth.Synthesize(ctx, inputs, target, req.Force)
	if err != nil {
		return nil, err
	}

	o.state.RecordDeploy(arts.Dir, inputs.Domain)
	if err := o.finish(domain.CommandDeploy); err != nil {
		return nil, err
	}

	if !req.NoSystemd {
		if err := o.setupAutostart(ctx, req.Source, arts.Dir); err != nil {
			return nil, err
		}
	}

	o.printf("\nDeployment written to %s\n", arts.Dir)
	o.printf("1. Start services: mvre-hub start\n")
	o.printf("2. Access hub: https://%s\n", inputs.Domain)
	return arts, nil
}

func (o *Orchestrator) setupAutostart(ctx context.Context, src deployment.ValueSource, dir string) error {
	if o.service == nil {
		return nil
	}
	enable, err := deployment.AskBool(src, deployment.AutostartQuestion())
	if err != nil {
		return err
	}
	if !enable {
		return nil
	}

	err = o.service.Install(ctx, dir)
	if errors.Is(err, domain.ErrPrivilegeRequired) {
		o.logger.Warn("root required for systemd setup, run with sudo to enable auto-start")
		return nil
	}
	if err != nil {
		return err
	}
	o.printf("Auto-start configured\n")
	return nil
}
