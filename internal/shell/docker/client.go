package docker

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// =============================================================================
// Docker Client Implementation
// =============================================================================

// DockerClient implements Client using the Docker SDK.
type DockerClient struct {
	cli *client.Client
}

// NewDockerClient creates a new Docker client.
// If host is empty, it uses the default Docker host from environment.
// On macOS with Docker Desktop, it falls back to the per-user socket.
func NewDockerClient(ctx context.Context, host string) (*DockerClient, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, NewDockerError("NewDockerClient", "", "", err.Error(), ErrConnectionFailed)
	}

	if host == "" {
		if _, pingErr := cli.Ping(ctx); pingErr != nil {
			if alt := desktopClient(ctx); alt != nil {
				cli.Close()
				return &DockerClient{cli: alt}, nil
			}
		}
	}

	return &DockerClient{cli: cli}, nil
}

func desktopClient(ctx context.Context) *client.Client {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	cli, err := client.NewClientWithOpts(
		client.WithHost("unix://"+homeDir+"/.docker/run/docker.sock"),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil
	}
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil
	}
	return cli
}

// Ping checks if Docker daemon is reachable.
func (d *DockerClient) Ping(ctx context.Context) error {
	if _, err := d.cli.Ping(ctx); err != nil {
		return NewDockerError("Ping", "", "", fmt.Sprintf("failed to ping docker: %v", err), ErrConnectionFailed)
	}
	return nil
}

// Close closes the Docker client connection.
func (d *DockerClient) Close() error {
	return d.cli.Close()
}

// ProjectContainers lists the containers the compose CLI created for project.
func (d *DockerClient) ProjectContainers(ctx context.Context, project string) ([]ContainerInfo, error) {
	f := filters.NewArgs()
	f.Add("label", fmt.Sprintf("%s=%s", LabelProject, project))

	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: f})
	if err != nil {
		return nil, NewDockerError("ProjectContainers", "project", project, err.Error(), ErrListFailed)
	}

	result := make([]ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, convertContainer(c))
	}
	SortContainers(result)
	return result, nil
}

func convertContainer(c container.Summary) ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}
	return ContainerInfo{
		ID:        c.ID,
		Name:      name,
		Service:   c.Labels[LabelService],
		Image:     c.Image,
		Status:    ContainerStatus(c.State),
		State:     c.Status,
		CreatedAt: time.Unix(c.Created, 0),
		Labels:    c.Labels,
	}
}

// SortContainers orders containers by service, then name.
func SortContainers(cs []ContainerInfo) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Service != cs[j].Service {
			return cs[i].Service < cs[j].Service
		}
		return cs[i].Name < cs[j].Name
	})
}
