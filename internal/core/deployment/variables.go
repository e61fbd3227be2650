package deployment

import "regexp"

// =============================================================================
// Variable Substitution
// =============================================================================

// placeholderRegex matches ${VAR} and ${VAR:-default}.
// Groups: 1 = name, 2 = ":-default" (present when a default is given),
// 3 = the default itself.
var placeholderRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// SubstituteVariables replaces ${VAR} and ${VAR:-default} placeholders.
//
// Behavior:
//   - ${VAR} is replaced with variables["VAR"] if set, otherwise kept as is
//   - ${VAR:-default} falls back to "default" (which may be empty)
//
// Example:
//
//	SubstituteVariables("${DIR}/docker-compose.yml", map[string]string{"DIR": "/srv/hub"})
//	// Returns: "/srv/hub/docker-compose.yml"
func SubstituteVariables(value string, variables map[string]string) string {
	return placeholderRegex.ReplaceAllStringFunc(value, func(match string) string {
		sub := placeholderRegex.FindStringSubmatch(match)
		if v, ok := variables[sub[1]]; ok {
			return v
		}
		if sub[2] != "" {
			return sub[3]
		}
		return match
	})
}
