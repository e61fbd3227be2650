// Package systemd renders the boot unit for a deployment. It is pure; the
// shell package of the same name installs the result.
package systemd

import (
	"strings"

	"github.com/mvre-project/mvre-hub/internal/core/deployment"
)

// Defaults for the installed unit.
const (
	DefaultUnitName = "mvre-hub"
	DefaultUnitPath = "/etc/systemd/system/mvre-hub.service"
)

const unitTemplate = `[Unit]
Description=MVRE-Hub
After=network.target

[Service]
ExecStart=/usr/bin/env ${COMPOSE} -f ${DEPLOY_DIR}/docker-compose.yml up
ExecStop=/usr/bin/env ${COMPOSE} -f ${DEPLOY_DIR}/docker-compose.yml down
Restart=always
User=${USER:-root}
WorkingDirectory=${DEPLOY_DIR}

[Install]
WantedBy=multi-user.target
`

// UnitParams are the values referenced by the unit.
type UnitParams struct {
	// DeployDir must be absolute; systemd does not resolve relative paths.
	DeployDir string

	// User runs the services. Empty means root.
	User string

	// ComposeCommand is the orchestration tool invocation, e.g.
	// ["docker-compose"] or ["docker", "compose"].
	ComposeCommand []string
}

// RenderUnit renders the unit file content.
func RenderUnit(p UnitParams) string {
	compose := strings.Join(p.ComposeCommand, " ")
	if compose == "" {
		compose = "docker-compose"
	}
	vars := map[string]string{
		"COMPOSE":    compose,
		"DEPLOY_DIR": p.DeployDir,
	}
	if p.User != "" {
		vars["USER"] = p.User
	}
	return deployment.SubstituteVariables(unitTemplate, vars)
}
