package domain

// Phase is the position of a data source in its load state machine.
type Phase int

const (
	// PhaseIdle means no load has started for the current inputs.
	PhaseIdle Phase = iota

	// PhaseLoading means a foreground fetch is in flight.
	PhaseLoading

	// PhaseReady means records are available.
	PhaseReady

	// PhaseError means the foreground fetch failed.
	PhaseError
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// LoadState is what a data source subscription observes.
type LoadState struct {
	// Records are the parsed records after category filtering.
	Records RecordSet

	// IsLoading is true only while a foreground fetch is in flight.
	IsLoading bool

	// Err describes the failure of the foreground load; empty otherwise.
	Err string

	// IsFromCache is true when Records came from a cached document.
	IsFromCache bool

	// Phase is the state machine position.
	Phase Phase

	// Identifier and Category are the inputs this state belongs to.
	Identifier string
	Category   string

	// Generation identifies the load attempt that produced this state.
	Generation uint64
}

// HasError reports whether the state carries a failure.
func (s LoadState) HasError() bool {
	return s.Err != ""
}
