package templates

import (
	"strconv"
	"strings"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
)

// =============================================================================
// Environment File
// =============================================================================

// EnvParams are the resolved values written to the environment file.
type EnvParams struct {
	Inputs domain.DeploymentInputs

	// DatasetHost and SharedHost are host paths after resolution against the
	// deployment directory. SharedHost is empty when no shared path is used.
	DatasetHost string
	SharedHost  string

	// NetworkName is the compose network the spawner attaches user
	// containers to.
	NetworkName string
}

// EnvEntry is one KEY=VALUE line.
type EnvEntry struct {
	Key   string
	Value string
}

// EnvEntries returns the environment entries in file order.
func EnvEntries(p EnvParams) []EnvEntry {
	in := p.Inputs
	prof := in.Profile

	return []EnvEntry{
		{"HUB_DOMAIN", in.Domain},
		{"OAUTH_CLIENT_ID", in.ClientID},
		{"OAUTH_CLIENT_SECRET", in.ClientSecret},
		{"USER_IMAGE", in.UserImage},
		{"DATASET_HOST_PATH", p.DatasetHost},
		{"DATASET_MOUNT_PATH", in.DatasetMount},
		{"ALLOW_MISSING_DATASET", strconv.FormatBool(in.AllowMissingDataset)},
		{"SHARED_HOST_PATH", p.SharedHost},
		{"SHARED_MOUNT_PATH", in.SharedMount},
		{"ADMIN_USERS", in.AdminUsers},
		{"OAUTH_AUTHORIZE_URL", in.OAuthAuthorizeURL},
		{"OAUTH_TOKEN_URL", in.OAuthTokenURL},
		{"OAUTH_USERDATA_URL", in.OAuthUserdataURL},
		{"OAUTH_USERNAME_KEY", in.OAuthUsernameKey},
		{"ENABLE_POSTGRES", strconv.FormatBool(prof.EnablePostgres)},
		{"DB_USER", prof.DBUser},
		{"DB_PASSWORD", in.DBPassword},
		{"DB_NAME", prof.DBName},
		{"DB_HOST", prof.DBHost},
		{"DB_PORT", strconv.Itoa(prof.DBPort)},
		{"JUPYTERHUB_DB_URL", in.DatabaseURL()},
		{"CPU_LIMIT", prof.CPULimit},
		{"MEM_LIMIT", prof.MemLimit},
		{"CULL_TIMEOUT", seconds(prof.CullTimeout)},
		{"CULL_EVERY", seconds(prof.CullEvery)},
		{"DOCKER_NETWORK_NAME", p.NetworkName},
		{"ALLOW_DUMMY_AUTH", "false"},
	}
}

// RenderEnv renders entries as newline separated KEY='VALUE' pairs.
//
// Single-quoted values are read literally by the compose dotenv parser: no
// variable expansion, no inline comments. Values must satisfy
// domain.EnvSafe to read back unchanged.
func RenderEnv(entries []EnvEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Key)
		b.WriteString("='")
		b.WriteString(e.Value)
		b.WriteString("'\n")
	}
	return b.String()
}

// UnsafeEntries returns the keys whose values cannot be rendered literally.
func UnsafeEntries(entries []EnvEntry) []string {
	var keys []string
	for _, e := range entries {
		if !domain.EnvSafe(e.Value) {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// EnvMap returns the entries as a map, for interpolating the compose
// descriptor.
func EnvMap(entries []EnvEntry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Value
	}
	return m
}

func seconds(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}
