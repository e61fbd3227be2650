// Package lifecycle drives a deployment through deploy, start, stop, status
// and clean. It owns the application state for the duration of a command
// and saves it after every successful mutating command.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mvre-project/mvre-hub/internal/core/deployment"
	"github.com/mvre-project/mvre-hub/internal/core/domain"
	"github.com/mvre-project/mvre-hub/internal/shell/docker"
	"github.com/mvre-project/mvre-hub/internal/shell/exectool"
	"github.com/mvre-project/mvre-hub/internal/shell/synth"
)

// =============================================================================
// Dependencies
// =============================================================================

// StateSaver persists the application state.
type StateSaver interface {
	Save(st domain.AppState) error
}

// Synthesizer writes deployment directories.
type Synthesizer interface {
	Synthesize(ctx context.Context, in domain.DeploymentInputs, targetDir string, force bool) (*synth.Artifacts, error)
}

// ServiceManager installs and removes the boot unit.
type ServiceManager interface {
	Install(ctx context.Context, deployDir string) error
	Remove() error
	Privileged() bool
}

// DockerDialer opens a daemon connection for doctor.
type DockerDialer func(ctx context.Context) (docker.Client, error)

// =============================================================================
// Orchestrator
// =============================================================================

// Config wires an Orchestrator.
type Config struct {
	// State is the state loaded at process start. It is updated in place.
	State *domain.AppState
	Store StateSaver

	// Compose runs the orchestration tool with the deployment directory
	// as working directory.
	Compose exectool.Runner

	Synth   Synthesizer
	Service ServiceManager
	Docker  DockerDialer

	// DefaultDir is offered for deploy and probed by the resolver.
	DefaultDir string

	// Out receives user facing messages.
	Out    io.Writer
	Logger *slog.Logger
}

// Orchestrator runs lifecycle commands.
type Orchestrator struct {
	state      *domain.AppState
	store      StateSaver
	compose    exectool.Runner
	synth      Synthesizer
	service    ServiceManager
	dialDocker DockerDialer
	defaultDir string
	out        io.Writer
	logger     *slog.Logger
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		state:      cfg.State,
		store:      cfg.Store,
		compose:    cfg.Compose,
		synth:      cfg.Synth,
		service:    cfg.Service,
		dialDocker: cfg.Docker,
		defaultDir: cfg.DefaultDir,
		out:        cfg.Out,
		logger:     cfg.Logger,
	}
	if o.state == nil {
		o.state = &domain.AppState{}
	}
	if o.defaultDir == "" {
		o.defaultDir = deployment.DefaultDeployDir
	}
	if o.out == nil {
		o.out = io.Discard
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// State returns the current application state.
func (o *Orchestrator) State() domain.AppState {
	return *o.state
}

// begin applies the rules of cmd before it does anything else: the safety
// lock first, then deployment resolution for commands acting on an existing
// deployment. The returned directory is empty for commands that do not
// resolve one.
func (o *Orchestrator) begin(cmd domain.Command, explicitDir string, confirmed bool) (string, error) {
	if err := domain.CheckConfirmation(cmd, confirmed); err != nil {
		return "", err
	}
	rules, err := domain.RulesFor(cmd)
	if err != nil {
		return "", err
	}
	if !rules.ResolvesDeployment {
		return "", nil
	}
	return o.resolve(explicitDir)
}

// finish saves the state for commands that persist it.
func (o *Orchestrator) finish(cmd domain.Command) error {
	rules, err := domain.RulesFor(cmd)
	if err != nil {
		return err
	}
	if !rules.SavesState {
		return nil
	}
	return o.save()
}

// resolve locates the deployment for a command acting on an existing one.
func (o *Orchestrator) resolve(explicit string) (string, error) {
	dir, err := deployment.Resolve(explicit, *o.state, o.defaultDir, dirExists)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	if !dirExists(abs) {
		return "", fmt.Errorf("%w: %s", domain.ErrDeploymentNotFound, abs)
	}
	o.logger.Debug("using deployment", "dir", abs)
	return abs, nil
}

func (o *Orchestrator) save() error {
	if o.store == nil {
		return nil
	}
	if err := o.store.Save(*o.state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
