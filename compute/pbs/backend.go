// Package pbs contains the PBS/Torque submission backend.
package pbs

import (
	"strings"

	"github.com/ohsu-comp-bio/wrkldmngr/compute"
)

func init() {
	compute.Register("pbs", func() compute.Backend { return NewBackend() })
}

// NewBackend returns a new PBS (Portable Batch System) HPCBackend instance.
func NewBackend() *compute.HPCBackend {
	return &compute.HPCBackend{
		BackendName: "pbs",
		ExtractID:   extractID,
	}
}

// qsub prints the full job id, e.g. "1234.server".
func extractID(in string) string {
	return strings.TrimSpace(in)
}
