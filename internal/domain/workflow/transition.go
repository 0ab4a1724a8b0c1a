package workflow

// ActorConstraint identifies who may drive a transition
type ActorConstraint int

const (
	// ByAdmin restricts the edge to administrators
	ByAdmin ActorConstraint = iota

	// ByOwner restricts the edge to the owning user
	ByOwner

	// Internal marks an edge that is never reachable through a direct
	// transition request, only through engine-internal operations
	Internal
)

// String returns the string representation of the actor constraint
func (a ActorConstraint) String() string {
	switch a {
	case ByAdmin:
		return "admin"
	case ByOwner:
		return "owner"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Rule describes one permitted edge of the transition table
type Rule struct {
	To            State
	Actor         ActorConstraint
	RequiresReply bool
}
