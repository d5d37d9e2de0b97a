// Package htcondor contains the HTCondor submission backend.
package htcondor

import (
	"regexp"

	"github.com/ohsu-comp-bio/wrkldmngr/compute"
)

func init() {
	compute.Register("htcondor", func() compute.Backend { return NewBackend() })
}

// NewBackend returns a new HTCondor HPCBackend instance.
func NewBackend() *compute.HPCBackend {
	return &compute.HPCBackend{
		BackendName: "htcondor",
		ExtractID:   extractID,
	}
}

var re = regexp.MustCompile(`submitted to cluster ([0-9]+)\.`)

// extractID extracts the cluster id from the response returned by `condor_submit`.
// Example response:
//
//	Submitting job(s).
//	1 job(s) submitted to cluster 8.
func extractID(in string) string {
	if m := re.FindStringSubmatch(in); m != nil {
		return m[1]
	}
	return ""
}
