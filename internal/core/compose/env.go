package compose

import (
	"sort"

	"github.com/compose-spec/compose-go/v2/dotenv"
)

// =============================================================================
// Environment File
// =============================================================================

// ParseEnv reads environment file content the way compose does. Variables
// referenced in unquoted values resolve against the file only.
func ParseEnv(content string) (map[string]string, error) {
	env, err := dotenv.UnmarshalWithLookup(content, nil)
	if err != nil {
		return nil, NewParseError("env", err.Error(), err)
	}
	return env, nil
}

// EnvMismatches returns the keys whose value in got differs from want,
// including keys missing from either side.
func EnvMismatches(want, got map[string]string) []string {
	var keys []string
	for k, v := range want {
		if gv, ok := got[k]; !ok || gv != v {
			keys = append(keys, k)
		}
	}
	for k := range got {
		if _, ok := want[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
