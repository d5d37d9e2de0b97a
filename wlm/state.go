package wlm

// State is the lifecycle state of a WorkloadManager.
type State int

// Lifecycle states. Failed is terminal; Submitted may be followed by
// another Run.
const (
	Constructed State = iota
	Configured
	Rendered
	Submitted
	Failed
)

func (s State) String() string {
	switch s {
	case Constructed:
		return "Constructed"
	case Configured:
		return "Configured"
	case Rendered:
		return "Rendered"
	case Submitted:
		return "Submitted"
	case Failed:
		return "Failed"
	}
	return "Unknown"
}
