package migration

import "fmt"

// TicketResult records the outcome of one ticket's migration.
type TicketResult struct {
	ticketNumber string
	issueKey     string
	state        TicketState
	failedAt     TicketState
	skipped      bool
	warnings     []error
	err          error
}

func NewTicketResult(ticketNumber string) *TicketResult {
	return &TicketResult{
		ticketNumber: ticketNumber,
		state:        StatePending,
	}
}

func (r *TicketResult) TicketNumber() string {
	return r.ticketNumber
}

func (r *TicketResult) IssueKey() string {
	return r.issueKey
}

func (r *TicketResult) SetIssueKey(key string) {
	r.issueKey = key
}

func (r *TicketResult) State() TicketState {
	return r.state
}

// Advance moves the pipeline forward. Invalid transitions are rejected so a
// bug in the orchestrator cannot silently rewind a ticket.
func (r *TicketResult) Advance(next TicketState) error {
	if !r.state.CanTransitionTo(next) {
		return fmt.Errorf("invalid state transition %s -> %s", r.state, next)
	}
	r.state = next
	return nil
}

// Fail marks the ticket failed, remembering the last state reached.
func (r *TicketResult) Fail(err error) {
	r.err = err
	r.failedAt = r.state
	r.state = StateFailed
}

// FailedAt returns the state the pipeline had reached when the ticket failed.
func (r *TicketResult) FailedAt() TicketState {
	return r.failedAt
}

// MarkSkipped records that a destination issue already existed.
func (r *TicketResult) MarkSkipped(issueKey string) {
	r.skipped = true
	r.issueKey = issueKey
	r.state = StateDone
}

func (r *TicketResult) Skipped() bool {
	return r.skipped
}

// AddWarning records a non-fatal error against this ticket.
func (r *TicketResult) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

func (r *TicketResult) Warnings() []error {
	warningsCopy := make([]error, len(r.warnings))
	copy(warningsCopy, r.warnings)
	return warningsCopy
}

func (r *TicketResult) Err() error {
	return r.err
}

func (r *TicketResult) Succeeded() bool {
	return r.state == StateDone && r.err == nil
}

// Line renders the operator-facing one-line outcome for this ticket.
func (r *TicketResult) Line() string {
	switch {
	case r.skipped:
		return fmt.Sprintf("ticket %s: skipped, already migrated as %s", r.ticketNumber, r.issueKey)
	case r.err != nil:
		return fmt.Sprintf("ticket %s: failed at %s: %v", r.ticketNumber, r.failedAt, r.err)
	case len(r.warnings) > 0:
		return fmt.Sprintf("ticket %s: migrated as %s with %d warning(s)", r.ticketNumber, r.issueKey, len(r.warnings))
	default:
		return fmt.Sprintf("ticket %s: migrated as %s", r.ticketNumber, r.issueKey)
	}
}
