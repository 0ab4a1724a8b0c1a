package workflow

// Table is an immutable transition table keyed by (current, target)
// state pairs. Every permitted transition is checked against it
// centrally rather than inferred from which operation was invoked.
type Table interface {
	// Rule returns the rule for the (from, to) edge, if one is permitted
	Rule(from, to State) (Rule, bool)

	// CanMove returns true if the (from, to) edge is permitted
	CanMove(from, to State) bool

	// PermittedTargets returns all target states reachable from the given state
	PermittedTargets(from State) []State
}
