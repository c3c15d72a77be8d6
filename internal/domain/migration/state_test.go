package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from TicketState
		to   TicketState
		want bool
	}{
		{"pending to issue created", StatePending, StateIssueCreated, true},
		{"pending skips ahead", StatePending, StateTransitioned, true},
		{"issue created to comments posted", StateIssueCreated, StateCommentsPosted, true},
		{"no backward movement", StateCommentsPosted, StateIssueCreated, false},
		{"no self transition", StatePrioritySet, StatePrioritySet, false},
		{"failed from pending", StatePending, StateFailed, true},
		{"failed from transitioned", StateTransitioned, StateFailed, true},
		{"done is terminal", StateDone, StateFailed, false},
		{"failed is terminal", StateFailed, StateIssueCreated, false},
		{"unknown state goes nowhere", TicketState("BOGUS"), StateDone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTicketState_IsTerminal(t *testing.T) {
	assert.True(t, StateDone.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
	assert.False(t, StatePending.IsTerminal())
	assert.False(t, StateTransitioned.IsTerminal())
}
