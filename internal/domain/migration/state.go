package migration

// TicketState is the per-ticket pipeline state. Transitions are strictly
// forward; FAILED is terminal and reachable from any state.
type TicketState string

const (
	StatePending             TicketState = "PENDING"
	StateIssueCreated        TicketState = "ISSUE_CREATED"
	StateCommentsPosted      TicketState = "COMMENTS_POSTED"
	StateAttachmentsUploaded TicketState = "ATTACHMENTS_UPLOADED"
	StatePrioritySet         TicketState = "PRIORITY_SET"
	StateTransitioned        TicketState = "TRANSITIONED"
	StateDone                TicketState = "DONE"
	StateFailed              TicketState = "FAILED"
)

var stateOrder = map[TicketState]int{
	StatePending:             0,
	StateIssueCreated:        1,
	StateCommentsPosted:      2,
	StateAttachmentsUploaded: 3,
	StatePrioritySet:         4,
	StateTransitioned:        5,
	StateDone:                6,
}

func (s TicketState) String() string {
	return string(s)
}

func (s TicketState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransitionTo permits only forward movement through the pipeline, plus
// failure from anywhere.
func (s TicketState) CanTransitionTo(next TicketState) bool {
	if s == StateDone || s == StateFailed {
		return false
	}
	if next == StateFailed {
		return true
	}
	cur, ok := stateOrder[s]
	if !ok {
		return false
	}
	nxt, ok := stateOrder[next]
	if !ok {
		return false
	}
	return nxt > cur
}
