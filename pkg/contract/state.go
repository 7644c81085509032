package contract

// State names the stage an invocation pipeline is in. It advances
// strictly forward; a failed stage is terminal and the pipeline reports
// the stage along with the classified error.
type State byte

// Invocation pipeline stages.
const (
	StateBuilding State = iota
	StateSimulating
	StatePreparing
	StateSigning
	StateSubmitting
	StatePolling
	StateDone
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateSimulating:
		return "simulating"
	case StatePreparing:
		return "preparing"
	case StateSigning:
		return "signing"
	case StateSubmitting:
		return "submitting"
	case StatePolling:
		return "polling"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
