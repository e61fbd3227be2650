package compose

import (
	"context"
	"sort"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Parser Functions
// =============================================================================

// ParseComposeSpec loads a compose descriptor with compose-go and converts it
// into a ParsedSpec. Interpolation uses opts.Environment only; the process
// environment and env_file contents are never read.
func ParseComposeSpec(yamlContent string, opts ParseOptions) (*ParsedSpec, error) {
	if strings.TrimSpace(yamlContent) == "" {
		return nil, ErrEmptyInput
	}

	project, err := loadComposeSpec(yamlContent, opts)
	if err != nil {
		return nil, err
	}

	if len(project.Services) == 0 {
		return nil, ErrNoServices
	}

	spec := &ParsedSpec{
		Project:  project.Name,
		Services: make([]Service, 0, len(project.Services)),
		Volumes:  make([]string, 0, len(project.Volumes)),
	}

	for _, svc := range project.Services {
		converted, err := convertService(svc)
		if err != nil {
			return nil, err
		}
		spec.Services = append(spec.Services, converted)
	}
	sort.Slice(spec.Services, func(i, j int) bool { return spec.Services[i].Name < spec.Services[j].Name })

	if err := detectCircularDependencies(spec.Services); err != nil {
		return nil, NewParseError("services", "circular dependency detected", err)
	}

	for name := range project.Volumes {
		spec.Volumes = append(spec.Volumes, name)
	}
	sort.Strings(spec.Volumes)

	return spec, nil
}

// loadComposeSpec loads a compose spec using compose-go
func loadComposeSpec(yamlContent string, opts ParseOptions) (*types.Project, error) {
	var dict map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlContent), &dict); err != nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}
	if dict == nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}

	env := types.Mapping{}
	for k, v := range opts.Environment {
		env[k] = v
	}

	projectName := opts.ProjectName
	if projectName == "" {
		projectName = "mvre-hub"
	}

	project, err := loader.LoadWithContext(context.Background(), types.ConfigDetails{
		WorkingDir: opts.WorkingDir,
		ConfigFiles: []types.ConfigFile{
			{
				Filename: "docker-compose.yml",
				Content:  []byte(yamlContent),
				Config:   dict,
			},
		},
		Environment: env,
	}, func(o *loader.Options) {
		o.SetProjectName(projectName, true)
		o.SkipValidation = false
		o.SkipInterpolation = false
		o.SkipNormalization = true
		o.SkipExtends = true
		o.SkipResolveEnvironment = true
	})
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "dependency cycle detected") {
			return nil, NewParseError("", "circular dependency detected", ErrCircularDependency)
		}
		if strings.Contains(errStr, "image") && strings.Contains(errStr, "build") {
			return nil, NewParseError("", "service must have image or build", ErrServiceNoImage)
		}
		return nil, NewParseError("", errStr, ErrInvalidYAML)
	}

	return project, nil
}

// convertService converts a compose-go service to our Service type
func convertService(svc types.ServiceConfig) (Service, error) {
	service := Service{
		Name:   svc.Name,
		Image:  svc.Image,
		Labels: make(map[string]string, len(svc.Labels)),
	}

	if svc.Build != nil {
		service.BuildContext = svc.Build.Context
	}

	if service.Image == "" && svc.Build == nil {
		return Service{}, NewParseError("services."+svc.Name, "service must have image or build", ErrServiceNoImage)
	}

	for dep := range svc.DependsOn {
		service.DependsOn = append(service.DependsOn, dep)
	}
	sort.Strings(service.DependsOn)

	for k, v := range svc.Labels {
		service.Labels[k] = v
	}

	return service, nil
}

// detectCircularDependencies walks depends_on edges depth first.
func detectCircularDependencies(services []Service) error {
	deps := make(map[string][]string, len(services))
	for _, svc := range services {
		deps[svc.Name] = svc.DependsOn
	}

	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var hasCycle func(node string) bool
	hasCycle = func(node string) bool {
		visited[node] = true
		onStack[node] = true
		for _, dep := range deps[node] {
			if onStack[dep] {
				return true
			}
			if !visited[dep] && hasCycle(dep) {
				return true
			}
		}
		onStack[node] = false
		return false
	}

	for _, svc := range services {
		if !visited[svc.Name] && hasCycle(svc.Name) {
			return ErrCircularDependency
		}
	}
	return nil
}

// =============================================================================
// Expectations
// =============================================================================

// RequireServices checks that every named service is declared.
func RequireServices(spec *ParsedSpec, names ...string) error {
	for _, name := range names {
		if _, ok := spec.Service(name); !ok {
			return NewParseError("services."+name, "required service is missing", ErrMissingService)
		}
	}
	return nil
}

// RequireVolumes checks that every named volume is declared.
func RequireVolumes(spec *ParsedSpec, names ...string) error {
	have := make(map[string]bool, len(spec.Volumes))
	for _, v := range spec.Volumes {
		have[v] = true
	}
	for _, name := range names {
		if !have[name] {
			return NewParseError("volumes."+name, "required volume is missing", ErrMissingVolume)
		}
	}
	return nil
}
