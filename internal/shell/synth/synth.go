// Package synth turns validated deployment inputs into a deployment
// directory on disk.
//
// The tree is assembled in a staging directory next to the target and
// renamed into place once complete, so the target is either absent or fully
// populated. Every file goes through the atomic writer.
package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvre-project/mvre-hub/internal/core/compose"
	"github.com/mvre-project/mvre-hub/internal/core/deployment"
	"github.com/mvre-project/mvre-hub/internal/core/domain"
	"github.com/mvre-project/mvre-hub/internal/core/templates"
)

// File modes used in the deployment tree.
const (
	DirPerm    os.FileMode = 0o755
	FilePerm   os.FileMode = 0o644
	SecretPerm os.FileMode = 0o600
)

// Fixed subdirectories of every deployment.
const (
	DirProxy   = "traefik"
	DirHub     = "hub"
	DirUser    = "user"
	DirHubData = "jupyterhub_data"
	DirShared  = "shared"
)

// =============================================================================
// Artifacts
// =============================================================================

// FileRecord is one written file, relative to the deployment directory when
// it lies inside it.
type FileRecord struct {
	Path string
	Mode os.FileMode
}

// Artifacts describes a synthesized deployment.
type Artifacts struct {
	Dir         string
	ProjectName string

	// DatasetHost and SharedHost are the resolved host paths. SharedHost is
	// empty when no shared path is configured.
	DatasetHost string
	SharedHost  string

	Files []FileRecord
}

// =============================================================================
// Synthesizer
// =============================================================================

// Synthesizer writes deployment directories.
type Synthesizer struct {
	logger *slog.Logger
}

// New creates a Synthesizer. A nil logger discards output.
func New(logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synthesizer{logger: logger.With("component", "synth")}
}

// Synthesize creates the deployment tree for in at targetDir.
//
// An existing target fails with domain.ErrDeploymentExists unless force is
// set, in which case it is replaced once the new tree is complete. A missing
// dataset path fails with domain.ErrDatasetPathMissing unless missing
// datasets are allowed.
func (s *Synthesizer) Synthesize(ctx context.Context, in domain.DeploymentInputs, targetDir string, force bool) (*Artifacts, error) {
	target, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", targetDir, err)
	}

	exists, err := pathExists(target)
	if err != nil {
		return nil, err
	}
	if exists && !force {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeploymentExists, target)
	}

	project := domain.ProjectName(target)
	arts := &Artifacts{
		Dir:         target,
		ProjectName: project,
		DatasetHost: deployment.ResolveHostPath(target, in.DatasetPath),
	}
	if in.HasSharedPath() {
		arts.SharedHost = deployment.ResolveHostPath(target, in.SharedPath)
	}

	// Render and validate before touching the filesystem.
	composeYAML, err := templates.RenderCompose(templates.ComposeParams{
		Domain:     in.Domain,
		ACMEEmail:  in.ACMEEmail,
		Production: in.Production(),
	})
	if err != nil {
		return nil, err
	}
	env := templates.EnvEntries(templates.EnvParams{
		Inputs:      in,
		DatasetHost: arts.DatasetHost,
		SharedHost:  arts.SharedHost,
		NetworkName: domain.NetworkName(project),
	})
	envContent, err := renderEnv(env)
	if err != nil {
		return nil, err
	}
	if err := validateCompose(composeYAML, project, target, templates.EnvMap(env), in.Production()); err != nil {
		return nil, err
	}

	stage := &staging{
		target: target,
		dir:    siblingPath(target, "staging"),
		arts:   arts,
		logger: s.logger,
	}
	defer stage.cleanup()

	s.logger.Debug("staging deployment", "target", target, "staging", stage.dir)

	steps := []func() error{
		func() error { return stage.createTree(in.HasSharedPath()) },
		func() error { return stage.prepareDataset(in.AllowMissingDataset) },
		stage.prepareShared,
		func() error { return stage.write(templates.ComposeFilename, []byte(composeYAML), FilePerm) },
		func() error { return stage.write(templates.EnvFilename, []byte(envContent), SecretPerm) },
		stage.writeCertStore,
		stage.writeRoleFiles,
	}
	if in.InstallNotebooks {
		steps = append(steps, stage.writeBundle)
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step(); err != nil {
			return nil, err
		}
	}

	if err := stage.commit(exists); err != nil {
		return nil, err
	}

	sort.Slice(arts.Files, func(i, j int) bool { return arts.Files[i].Path < arts.Files[j].Path })
	s.logger.Info("deployment written", "dir", target, "files", len(arts.Files), "production", in.Production())
	return arts, nil
}

func validateCompose(content, project, workingDir string, env map[string]string, production bool) error {
	spec, err := compose.ParseComposeSpec(content, compose.ParseOptions{
		ProjectName: project,
		WorkingDir:  workingDir,
		Environment: env,
	})
	if err != nil {
		return fmt.Errorf("validate compose descriptor: %w", err)
	}

	services := []string{templates.ServiceHub, templates.ServiceUserImage, templates.ServiceProxy}
	if production {
		services = append(services, templates.ServiceDatabase)
		if err := compose.RequireVolumes(spec, templates.VolumeDatabase); err != nil {
			return fmt.Errorf("validate compose descriptor: %w", err)
		}
	}
	if err := compose.RequireServices(spec, services...); err != nil {
		return fmt.Errorf("validate compose descriptor: %w", err)
	}
	return nil
}

// renderEnv renders the environment file and checks that compose reads
// every value back unchanged.
func renderEnv(entries []templates.EnvEntry) (string, error) {
	if keys := templates.UnsafeEntries(entries); len(keys) > 0 {
		return "", fmt.Errorf("%w: environment values cannot be written literally: %s",
			domain.ErrInvalidInput, strings.Join(keys, ", "))
	}

	content := templates.RenderEnv(entries)
	parsed, err := compose.ParseEnv(content)
	if err != nil {
		return "", fmt.Errorf("validate environment file: %w", err)
	}
	if keys := compose.EnvMismatches(templates.EnvMap(entries), parsed); len(keys) > 0 {
		return "", fmt.Errorf("%w: environment values do not read back unchanged: %s",
			domain.ErrInvalidInput, strings.Join(keys, ", "))
	}
	return content, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}
