package domain

import (
	"path/filepath"
	"strings"
)

// =============================================================================
// Compose Project Names
// =============================================================================

// ProjectName derives the compose project name for a deployment directory,
// the same way the orchestration tool does when no -p flag is given.
//
// The transformation rules are:
//   - Only the last path element is used
//   - Uppercase letters (A-Z) are converted to lowercase
//   - Lowercase letters, digits, '-' and '_' are kept
//   - All other characters are removed
//   - Leading '-' and '_' are trimmed
//
// Example:
//
//	ProjectName("/srv/MVRE Hub")  // returns "mvrehub"
//	ProjectName("./mvre-hub")     // returns "mvre-hub"
func ProjectName(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	var b strings.Builder
	for _, r := range base {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + 32)
		}
	}
	return strings.TrimLeft(b.String(), "-_")
}

// NetworkName returns the default network compose creates for a project.
func NetworkName(project string) string {
	return project + "_default"
}
