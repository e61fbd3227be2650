package domain

import "errors"

// =============================================================================
// Lifecycle Errors
// =============================================================================

var (
	// Environment / state errors
	ErrEnvironmentUnresolved = errors.New("unable to resolve config directory (XDG_CONFIG_HOME or HOME)")
	ErrStateCorrupt          = errors.New("persisted state is corrupt")

	// Deployment directory errors
	ErrDeploymentExists   = errors.New("deployment exists, use --force to overwrite")
	ErrDeploymentNotFound = errors.New("deployment not found, run 'mvre-hub deploy' first")
	ErrDatasetPathMissing = errors.New("dataset path does not exist")

	// Input errors
	ErrInvalidInput = errors.New("invalid deployment input")

	// Operation guards
	ErrSafetyLockEngaged = errors.New("safety lock engaged, use --full-ice to confirm cleanup")
	ErrPrivilegeRequired = errors.New("root privileges required")

	// External tools
	ErrExternalToolFailure = errors.New("external tool failed")
)
