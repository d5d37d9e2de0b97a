// Package version holds build information, set at link time with -ldflags.
package version

import (
	"fmt"
	"strings"
)

// Build and version details
var (
	GitCommit   = ""
	GitBranch   = ""
	GitUpstream = ""
	BuildDate   = ""
	Version     = "unknown"
)

// String formats a string with version details. Empty details are omitted.
func String() string {
	var b strings.Builder
	for _, kv := range [][2]string{
		{"git commit", GitCommit},
		{"git branch", GitBranch},
		{"git upstream", GitUpstream},
		{"build date", BuildDate},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
		}
	}
	fmt.Fprintf(&b, "version: %s", Version)
	return b.String()
}

// LogFields returns build and version information as logger key/value pairs.
func LogFields() []interface{} {
	return []interface{}{
		"GitCommit", GitCommit,
		"GitBranch", GitBranch,
		"GitUpstream", GitUpstream,
		"BuildDate", BuildDate,
		"Version", Version,
	}
}
