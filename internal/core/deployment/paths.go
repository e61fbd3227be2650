package deployment

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
)

// =============================================================================
// Host Path Resolution
// =============================================================================

// ResolveHostPath anchors a relative path under deployDir.
// Absolute paths are returned unchanged.
//
// Example:
//
//	ResolveHostPath("/srv/hub", "./data")   // returns "/srv/hub/data"
//	ResolveHostPath("/srv/hub", "/mnt/ds")  // returns "/mnt/ds"
func ResolveHostPath(deployDir, value string) string {
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(deployDir, value)
}

// IsWithin reports whether path is root itself or lies below it.
// Both paths are compared lexically after cleaning, so "/srv/hub2" is not
// within "/srv/hub".
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// =============================================================================
// Dataset Path Policy
// =============================================================================

// DatasetAction is what the synthesizer does with the dataset path.
type DatasetAction int

const (
	// DatasetUse means the path exists and is used as is.
	DatasetUse DatasetAction = iota
	// DatasetCreate means the path is missing, allowed, and inside the
	// deployment directory, so it is created.
	DatasetCreate
	// DatasetWarn means the path is missing, allowed, and outside the
	// deployment directory. Nothing is created outside the deployment.
	DatasetWarn
)

// PlanDatasetPath decides how to treat the resolved dataset path.
// A missing path without allowMissing is fatal.
func PlanDatasetPath(deployDir, path string, exists, allowMissing bool) (DatasetAction, error) {
	if exists {
		return DatasetUse, nil
	}
	if !allowMissing {
		return DatasetUse, fmt.Errorf("%w: %s", domain.ErrDatasetPathMissing, path)
	}
	if IsWithin(deployDir, path) {
		return DatasetCreate, nil
	}
	return DatasetWarn, nil
}
