package deployment

import (
	"strings"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
)

// DefaultDeployDir is used when neither a flag nor the persisted state names
// a deployment.
const DefaultDeployDir = "./mvre-hub"

// Resolve picks the deployment directory for a lifecycle command.
//
// Precedence:
//  1. explicit (the --dir flag)
//  2. the last deployment directory from the persisted state
//  3. defaultDir, only if exists reports it is present
//
// Otherwise it returns domain.ErrDeploymentNotFound. exists is the only
// window onto the filesystem and Resolve has no side effects.
func Resolve(explicit string, state domain.AppState, defaultDir string, exists func(string) bool) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}
	if state.LastDeployDir != "" {
		return state.LastDeployDir, nil
	}
	if defaultDir != "" && exists != nil && exists(defaultDir) {
		return defaultDir, nil
	}
	return "", domain.ErrDeploymentNotFound
}
