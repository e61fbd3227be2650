package templates

import (
	"bytes"
	"fmt"

	"github.com/mvre-project/mvre-hub/internal/core/traefik"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Compose Descriptor
// =============================================================================

// Service and volume names used by the descriptor and the lifecycle commands.
const (
	ServiceHub       = "jupyterhub"
	ServiceUserImage = "user-image"
	ServiceProxy     = "traefik"
	ServiceDatabase  = "postgres"
	VolumeDatabase   = "postgres_data"

	ComposeFilename = "docker-compose.yml"
	EnvFilename     = ".env"

	hubPort = 8000
)

// ComposeParams are the inputs that shape the compose descriptor.
type ComposeParams struct {
	Domain     string
	ACMEEmail  string
	Production bool
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Volumes  map[string]composeVolume  `yaml:"volumes,omitempty"`
}

type composeService struct {
	Image       string            `yaml:"image,omitempty"`
	Build       string            `yaml:"build,omitempty"`
	EnvFile     string            `yaml:"env_file,omitempty"`
	Command     []string          `yaml:"command,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Labels      []string          `yaml:"labels,omitempty"`
}

type composeVolume struct {
	Driver string `yaml:"driver,omitempty"`
}

// RenderCompose renders the compose descriptor.
//
// The development profile declares the hub, the user image build and the
// proxy. Production adds the postgres service, makes the hub depend on it,
// and declares the postgres_data named volume.
//
// The output is deterministic for equal params.
func RenderCompose(p ComposeParams) (string, error) {
	hub := composeService{
		Build:   "./hub",
		EnvFile: EnvFilename,
		Command: []string{"jupyterhub", "-f", "/etc/jupyterhub/jupyterhub_config.py"},
		Volumes: []string{
			"./hub/jupyterhub_config.py:/etc/jupyterhub/jupyterhub_config.py:ro",
			"./jupyterhub_data:/srv/jupyterhub",
			"/var/run/docker.sock:/var/run/docker.sock",
		},
		Labels: traefik.GenerateLabels(traefik.LabelParams{
			Router:   ServiceHub,
			Hostname: p.Domain,
			Port:     hubPort,
		}),
	}

	file := composeFile{
		Services: map[string]composeService{
			ServiceUserImage: {
				Build:   "./user",
				Image:   "${USER_IMAGE}",
				Command: []string{"true"},
			},
			ServiceProxy: {
				Image:   "traefik:v2.9",
				Command: traefik.ProxyCommand(traefik.ProxyParams{ACMEEmail: p.ACMEEmail}),
				Ports:   []string{"8080:80", "8443:443"},
				Volumes: []string{
					"./traefik:/certs",
					"/var/run/docker.sock:/var/run/docker.sock:ro",
				},
			},
		},
	}

	if p.Production {
		hub.DependsOn = []string{ServiceDatabase}
		file.Services[ServiceDatabase] = composeService{
			Image: "postgres:15",
			Environment: map[string]string{
				"POSTGRES_USER":     "${DB_USER}",
				"POSTGRES_PASSWORD": "${DB_PASSWORD}",
				"POSTGRES_DB":       "${DB_NAME}",
			},
			Volumes: []string{VolumeDatabase + ":/var/lib/postgresql/data"},
		}
		file.Volumes = map[string]composeVolume{VolumeDatabase: {}}
	}
	file.Services[ServiceHub] = hub

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return "", fmt.Errorf("encode compose descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode compose descriptor: %w", err)
	}
	return buf.String(), nil
}

// StartServices returns the services brought up by start. The database is
// pulled in through depends_on in production.
func StartServices() []string {
	return []string{ServiceHub, ServiceProxy}
}

// BuildServices returns the services whose images start builds.
func BuildServices() []string {
	return []string{ServiceHub, ServiceUserImage}
}
