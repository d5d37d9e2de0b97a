package wlm

// Workload manager backends register themselves with compute, so every
// schema entry with a known scheduler gets its job id parser.
import (
	_ "github.com/ohsu-comp-bio/wrkldmngr/compute/gridengine"
	_ "github.com/ohsu-comp-bio/wrkldmngr/compute/htcondor"
	_ "github.com/ohsu-comp-bio/wrkldmngr/compute/pbs"
)
