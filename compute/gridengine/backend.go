// Package gridengine contains the Grid Engine submission backend.
package gridengine

import (
	"regexp"

	"github.com/ohsu-comp-bio/wrkldmngr/compute"
)

func init() {
	compute.Register("gridengine", func() compute.Backend { return NewBackend() })
}

// NewBackend returns a new Grid Engine HPCBackend instance.
func NewBackend() *compute.HPCBackend {
	return &compute.HPCBackend{
		BackendName: "gridengine",
		ExtractID:   extractID,
	}
}

var re = regexp.MustCompile(`Your job ([0-9]+) \(".*"\) has been submitted`)

// extractID extracts the job id from the response returned by `qsub`.
// Example response:
// Your job 12 ("job.sh") has been submitted
func extractID(in string) string {
	if m := re.FindStringSubmatch(in); m != nil {
		return m[1]
	}
	return ""
}
