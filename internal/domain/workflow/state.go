package workflow

// State represents an application status in the review lifecycle
type State string

const (
	StateSubmitted State = "submitted"
	StateRevision  State = "revision"
	StateApproved  State = "approved"
	StateRejected  State = "rejected"
	StateCompleted State = "completed"
)

var validStates = map[State]bool{
	StateSubmitted: true,
	StateRevision:  true,
	StateApproved:  true,
	StateRejected:  true,
	StateCompleted: true,
}

var terminalStates = map[State]bool{
	StateRejected:  true,
	StateCompleted: true,
}

// IsTerminal returns true if the state has no outgoing transitions
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid review state
func (s State) IsValid() bool {
	return validStates[s]
}
