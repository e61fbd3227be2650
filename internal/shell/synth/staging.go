package synth

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mvre-project/mvre-hub/internal/core/deployment"
	"github.com/mvre-project/mvre-hub/internal/core/templates"
	"github.com/mvre-project/mvre-hub/internal/shell/atomicfile"
)

// staging is a deployment tree under construction. Paths inside the target
// are redirected into the staging directory until commit.
type staging struct {
	target    string
	dir       string
	arts      *Artifacts
	logger    *slog.Logger
	committed bool
}

// local maps a host path inside the target to its staging location.
// Paths outside the target are returned unchanged.
func (st *staging) local(hostPath string) string {
	if !deployment.IsWithin(st.target, hostPath) {
		return hostPath
	}
	rel, err := filepath.Rel(st.target, hostPath)
	if err != nil {
		return hostPath
	}
	return filepath.Join(st.dir, rel)
}

// record notes a written file, keyed by its final location.
func (st *staging) record(hostPath string, mode os.FileMode) {
	p := hostPath
	if deployment.IsWithin(st.target, hostPath) {
		if rel, err := filepath.Rel(st.target, hostPath); err == nil {
			p = filepath.ToSlash(rel)
		}
	}
	st.arts.Files = append(st.arts.Files, FileRecord{Path: p, Mode: mode})
}

func (st *staging) createTree(withShared bool) error {
	dirs := []string{DirProxy, DirHub, DirUser, DirHubData}
	if withShared {
		dirs = append(dirs, DirShared)
	}
	if err := os.MkdirAll(filepath.Dir(st.dir), DirPerm); err != nil {
		return fmt.Errorf("create parent of %s: %w", st.target, err)
	}
	if err := os.Mkdir(st.dir, DirPerm); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(st.dir, d), DirPerm); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

func (st *staging) prepareDataset(allowMissing bool) error {
	host := st.arts.DatasetHost
	exists, err := pathExists(st.local(host))
	if err != nil {
		return err
	}

	action, err := deployment.PlanDatasetPath(st.target, host, exists, allowMissing)
	if err != nil {
		return err
	}
	switch action {
	case deployment.DatasetCreate:
		st.logger.Debug("creating dataset directory", "path", host)
		if err := os.MkdirAll(st.local(host), DirPerm); err != nil {
			return fmt.Errorf("create dataset directory %s: %w", host, err)
		}
	case deployment.DatasetWarn:
		st.logger.Warn("dataset path not found, continuing without it", "path", host)
	}
	return nil
}

func (st *staging) prepareShared() error {
	if st.arts.SharedHost == "" {
		return nil
	}
	if err := os.MkdirAll(st.local(st.arts.SharedHost), DirPerm); err != nil {
		return fmt.Errorf("create shared directory %s: %w", st.arts.SharedHost, err)
	}
	return nil
}

// write stores data at rel, a path relative to the deployment directory.
func (st *staging) write(rel string, data []byte, perm os.FileMode) error {
	host := filepath.Join(st.target, filepath.FromSlash(rel))
	return st.writeHost(host, data, perm)
}

func (st *staging) writeHost(host string, data []byte, perm os.FileMode) error {
	if err := atomicfile.WriteFile(st.local(host), data, perm); err != nil {
		return err
	}
	st.record(host, perm)
	return nil
}

func (st *staging) writeCertStore() error {
	host := filepath.Join(st.target, filepath.FromSlash(templates.CertStorePath))
	path := st.local(host)

	exists, err := pathExists(path)
	if err != nil {
		return err
	}
	if !exists {
		return st.writeHost(host, templates.CertStorePlaceholder(), SecretPerm)
	}
	if err := atomicfile.SetPermissions(path, SecretPerm); err != nil {
		st.logger.Warn("could not restrict certificate store", "path", host, "error", err)
	}
	return nil
}

func (st *staging) writeRoleFiles() error {
	for _, f := range templates.RoleFiles() {
		if err := st.write(f.Path, f.Content, FilePerm); err != nil {
			return err
		}
	}
	return nil
}

func (st *staging) writeBundle() error {
	dest := st.arts.SharedHost
	if dest == "" {
		dest = filepath.Join(st.target, DirShared)
	}
	for _, f := range templates.BundleFiles() {
		if err := st.writeHost(filepath.Join(dest, filepath.FromSlash(f.Path)), f.Content, FilePerm); err != nil {
			return err
		}
	}
	return nil
}

// commit moves the staged tree into place. An existing target is moved to a
// backup sibling first and restored if the staged tree cannot be moved in.
func (st *staging) commit(replace bool) error {
	var backup string
	if replace {
		backup = siblingPath(st.target, "previous")
		st.logger.Info("replacing existing deployment", "dir", st.target)
		if err := os.Rename(st.target, backup); err != nil {
			return fmt.Errorf("move existing deployment %s aside: %w", st.target, err)
		}
	}

	if err := os.Rename(st.dir, st.target); err != nil {
		if backup != "" {
			if rerr := os.Rename(backup, st.target); rerr != nil {
				st.logger.Error("could not restore previous deployment", "backup", backup, "error", rerr)
			}
		}
		return fmt.Errorf("move deployment into %s: %w", st.target, err)
	}
	st.committed = true

	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			st.logger.Warn("could not remove previous deployment", "path", backup, "error", err)
		}
	}
	return nil
}

func (st *staging) cleanup() {
	if st.committed {
		return
	}
	if err := os.RemoveAll(st.dir); err != nil {
		st.logger.Warn("could not remove staging directory", "path", st.dir, "error", err)
	}
}

// siblingPath returns a unique hidden path next to target, e.g.
// "/srv/.mvre-hub.staging-<uuid>".
func siblingPath(target, kind string) string {
	return filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+"."+kind+"-"+uuid.NewString())
}
