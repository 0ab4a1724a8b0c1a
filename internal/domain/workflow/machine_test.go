package workflow

import "testing"

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateSubmitted, false},
		{StateRevision, false},
		{StateApproved, false},
		{StateRejected, true},
		{StateCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"submitted", StateSubmitted, true},
		{"completed", StateCompleted, true},
		{"invalid state", State("pending"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(StateSubmitted)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	config2 := builder.Configure(StateSubmitted)
	if config != config2 {
		t.Error("Configure() should return same config for same state")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("pending"))
}

func TestBuilder_PermitPanicsOnTerminalSource(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic when the source state is terminal")
		}
	}()

	builder.Configure(StateRejected).Permit(StateSubmitted, ByAdmin)
}

func TestTable_Rule(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateSubmitted).
		PermitWithReply(StateRevision, ByAdmin).
		Permit(StateApproved, ByAdmin)

	table := builder.Build()

	rule, ok := table.Rule(StateSubmitted, StateRevision)
	if !ok {
		t.Fatal("Rule() should find configured edge")
	}
	if rule.Actor != ByAdmin {
		t.Errorf("Rule.Actor = %v, want %v", rule.Actor, ByAdmin)
	}
	if !rule.RequiresReply {
		t.Error("Rule.RequiresReply should be true for PermitWithReply edge")
	}

	rule, ok = table.Rule(StateSubmitted, StateApproved)
	if !ok {
		t.Fatal("Rule() should find configured edge")
	}
	if rule.RequiresReply {
		t.Error("Rule.RequiresReply should be false for Permit edge")
	}

	if _, ok := table.Rule(StateSubmitted, StateCompleted); ok {
		t.Error("Rule() should not find unconfigured edge")
	}
	if _, ok := table.Rule(StateApproved, StateSubmitted); ok {
		t.Error("Rule() should not find edge from unconfigured state")
	}
}

func TestTable_CanMove(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateRevision).Permit(StateSubmitted, ByOwner)

	table := builder.Build()

	if !table.CanMove(StateRevision, StateSubmitted) {
		t.Error("CanMove() should return true for permitted edge")
	}
	if table.CanMove(StateSubmitted, StateRevision) {
		t.Error("CanMove() should return false for unconfigured edge")
	}
}

func TestTable_PermittedTargets(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateSubmitted).
		PermitWithReply(StateRevision, ByAdmin).
		Permit(StateApproved, ByAdmin).
		PermitWithReply(StateRejected, ByAdmin)

	table := builder.Build()

	targets := table.PermittedTargets(StateSubmitted)
	if len(targets) != 3 {
		t.Errorf("PermittedTargets() returned %d targets, want 3", len(targets))
	}

	targets = table.PermittedTargets(StateCompleted)
	if len(targets) != 0 {
		t.Errorf("PermittedTargets() for terminal state returned %d targets, want 0", len(targets))
	}
}

func TestTable_BuildIsolation(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateSubmitted).Permit(StateApproved, ByAdmin)

	table := builder.Build()

	// Mutating the builder after Build must not change the table
	builder.Configure(StateSubmitted).Permit(StateRejected, ByAdmin)

	if table.CanMove(StateSubmitted, StateRejected) {
		t.Error("Build() should return an isolated copy of the configuration")
	}
}

func TestActorConstraint_String(t *testing.T) {
	tests := []struct {
		actor    ActorConstraint
		expected string
	}{
		{ByAdmin, "admin"},
		{ByOwner, "owner"},
		{Internal, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.actor.String(); got != tt.expected {
				t.Errorf("ActorConstraint.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}
