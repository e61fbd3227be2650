// Package docker talks to the container daemon to inspect a running
// deployment. Lifecycle changes go through the compose CLI, not this client.
package docker

import (
	"context"
	"time"
)

// =============================================================================
// Compose Labels
// =============================================================================

// Labels set by the compose CLI on every container it creates.
const (
	LabelProject = "com.docker.compose.project"
	LabelService = "com.docker.compose.service"
)

// =============================================================================
// Container Info
// =============================================================================

// ContainerStatus represents the container state.
type ContainerStatus string

const (
	ContainerStatusCreated    ContainerStatus = "created"
	ContainerStatusRunning    ContainerStatus = "running"
	ContainerStatusPaused     ContainerStatus = "paused"
	ContainerStatusRestarting ContainerStatus = "restarting"
	ContainerStatusRemoving   ContainerStatus = "removing"
	ContainerStatusExited     ContainerStatus = "exited"
	ContainerStatusDead       ContainerStatus = "dead"
)

// ContainerInfo contains information about a container.
type ContainerInfo struct {
	ID        string
	Name      string
	Service   string // compose service name, "" for foreign containers
	Image     string
	Status    ContainerStatus
	State     string // human readable, e.g. "Up 2 hours (healthy)"
	CreatedAt time.Time
	Labels    map[string]string
}

// Running reports whether the container is running.
func (c ContainerInfo) Running() bool {
	return c.Status == ContainerStatusRunning
}

// =============================================================================
// Client Interface
// =============================================================================

// Client is the subset of the daemon API the lifecycle manager uses.
type Client interface {
	// Ping checks that the daemon is reachable.
	Ping(ctx context.Context) error

	// ProjectContainers lists all containers of a compose project,
	// running or not, sorted by service then name.
	ProjectContainers(ctx context.Context, project string) ([]ContainerInfo, error)

	// Close releases the connection.
	Close() error
}
