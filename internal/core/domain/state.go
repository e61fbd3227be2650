package domain

// =============================================================================
// Persisted Application State
// =============================================================================

// AppState is the record kept between invocations.
// It is loaded once at process start and saved after every successful
// deploy, start, stop and clean.
type AppState struct {
	LastDeployDir string `json:"last_deploy_dir,omitempty"`
	LastDomain    string `json:"last_domain,omitempty"`
}

// RecordDeploy remembers a freshly deployed directory and its domain.
func (s *AppState) RecordDeploy(dir, domain string) {
	s.LastDeployDir = dir
	s.LastDomain = domain
}

// RecordUse refreshes the last deployment directory after start or stop.
func (s *AppState) RecordUse(dir string) {
	s.LastDeployDir = dir
}

// ClearDeployDir forgets the deployment directory after clean.
// The last domain is kept as the default for the next deploy.
func (s *AppState) ClearDeployDir() {
	s.LastDeployDir = ""
}
