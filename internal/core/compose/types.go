package compose

// =============================================================================
// ParsedSpec
// =============================================================================

// ParsedSpec is the part of a loaded compose project the lifecycle manager
// cares about, decoupled from compose-go types.
type ParsedSpec struct {
	Project  string    `json:"project"`
	Services []Service `json:"services"`
	Volumes  []string  `json:"volumes,omitempty"`
}

// Service is a single service definition.
type Service struct {
	Name         string            `json:"name"`
	Image        string            `json:"image,omitempty"`
	BuildContext string            `json:"build_context,omitempty"`
	DependsOn    []string          `json:"depends_on,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
}

// ParseOptions control how a descriptor is loaded.
type ParseOptions struct {
	// ProjectName is the compose project name (see domain.ProjectName).
	ProjectName string

	// WorkingDir anchors relative build contexts and bind mounts.
	WorkingDir string

	// Environment is used to interpolate ${VAR} placeholders.
	Environment map[string]string
}

// ServiceNames returns the names of all services, sorted.
func (s *ParsedSpec) ServiceNames() []string {
	names := make([]string, 0, len(s.Services))
	for _, svc := range s.Services {
		names = append(names, svc.Name)
	}
	return names
}

// Service returns the named service.
func (s *ParsedSpec) Service(name string) (Service, bool) {
	for _, svc := range s.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return Service{}, false
}
