// Package slurm contains the SLURM submission backend.
package slurm

import (
	"regexp"

	"github.com/ohsu-comp-bio/wrkldmngr/compute"
)

func init() {
	compute.Register("slurm", func() compute.Backend { return NewBackend() })
}

// NewBackend returns a new Slurm HPCBackend instance.
func NewBackend() *compute.HPCBackend {
	return &compute.HPCBackend{
		BackendName: "slurm",
		ExtractID:   extractID,
	}
}

var (
	submittedRe = regexp.MustCompile(`Submitted batch job ([0-9]+)`)
	parsableRe  = regexp.MustCompile(`^([0-9]+)(;\S+)?\s*$`)
)

// extractID extracts the job id from the response returned by the `sbatch` command.
// Example responses:
//
//	Submitted batch job 2
//	2;cluster   (sbatch --parsable)
func extractID(in string) string {
	if m := submittedRe.FindStringSubmatch(in); m != nil {
		return m[1]
	}
	if m := parsableRe.FindStringSubmatch(in); m != nil {
		return m[1]
	}
	return ""
}
