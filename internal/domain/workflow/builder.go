package workflow

import "fmt"

// TableBuilder builds a configured transition table
type TableBuilder interface {
	// Configure returns a state configuration for the given state
	Configure(state State) StateConfiguration

	// Build creates an immutable transition table from the configuration
	Build() Table
}

// StateConfiguration configures outgoing edges for a specific state
type StateConfiguration interface {
	// Permit allows a transition to the target state for the given actor
	Permit(to State, actor ActorConstraint) StateConfiguration

	// PermitWithReply allows a transition that additionally requires a
	// non-empty reply from the actor
	PermitWithReply(to State, actor ActorConstraint) StateConfiguration
}

// stateConfig implements StateConfiguration
type stateConfig struct {
	fromState State
	rules     map[State]Rule
}

// tableBuilder implements TableBuilder
type tableBuilder struct {
	configurations map[State]*stateConfig
}

// table implements Table
type table struct {
	edges map[State]map[State]Rule
}

// NewBuilder creates a new transition table builder
func NewBuilder() TableBuilder {
	return &tableBuilder{
		configurations: make(map[State]*stateConfig),
	}
}

// Configure returns a state configuration for the given state
func (b *tableBuilder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	config, exists := b.configurations[state]
	if !exists {
		config = &stateConfig{
			fromState: state,
			rules:     make(map[State]Rule),
		}
		b.configurations[state] = config
	}

	return config
}

// Build creates an immutable transition table from the configuration
func (b *tableBuilder) Build() Table {
	// Deep copy so later builder use cannot mutate the built table
	edges := make(map[State]map[State]Rule)
	for state, config := range b.configurations {
		rulesCopy := make(map[State]Rule, len(config.rules))
		for to, rule := range config.rules {
			rulesCopy[to] = rule
		}
		edges[state] = rulesCopy
	}

	return &table{edges: edges}
}

// Permit allows a transition to the target state for the given actor
func (c *stateConfig) Permit(to State, actor ActorConstraint) StateConfiguration {
	return c.permit(to, actor, false)
}

// PermitWithReply allows a transition that requires a non-empty reply
func (c *stateConfig) PermitWithReply(to State, actor ActorConstraint) StateConfiguration {
	return c.permit(to, actor, true)
}

func (c *stateConfig) permit(to State, actor ActorConstraint, requiresReply bool) StateConfiguration {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}
	if c.fromState.IsTerminal() {
		panic(fmt.Sprintf("terminal state cannot have outgoing edges: %s", c.fromState))
	}

	c.rules[to] = Rule{
		To:            to,
		Actor:         actor,
		RequiresReply: requiresReply,
	}

	return c
}

// Rule returns the rule for the (from, to) edge, if one is permitted
func (t *table) Rule(from, to State) (Rule, bool) {
	rules, exists := t.edges[from]
	if !exists {
		return Rule{}, false
	}
	rule, exists := rules[to]
	return rule, exists
}

// CanMove returns true if the (from, to) edge is permitted
func (t *table) CanMove(from, to State) bool {
	_, ok := t.Rule(from, to)
	return ok
}

// PermittedTargets returns all target states reachable from the given state
func (t *table) PermittedTargets(from State) []State {
	rules, exists := t.edges[from]
	if !exists {
		return nil
	}

	targets := make([]State, 0, len(rules))
	for to := range rules {
		targets = append(targets, to)
	}
	return targets
}
