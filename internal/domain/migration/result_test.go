package migration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketResult_AdvanceAndSucceed(t *testing.T) {
	r := NewTicketResult("1042")
	assert.Equal(t, StatePending, r.State())

	require.NoError(t, r.Advance(StateIssueCreated))
	require.NoError(t, r.Advance(StateCommentsPosted))
	require.NoError(t, r.Advance(StateAttachmentsUploaded))
	require.NoError(t, r.Advance(StatePrioritySet))
	require.NoError(t, r.Advance(StateTransitioned))
	require.NoError(t, r.Advance(StateDone))

	assert.True(t, r.Succeeded())
	assert.Error(t, r.Advance(StateFailed))
}

func TestTicketResult_AdvanceRejectsRewind(t *testing.T) {
	r := NewTicketResult("1042")
	require.NoError(t, r.Advance(StateCommentsPosted))
	assert.Error(t, r.Advance(StateIssueCreated))
	assert.Equal(t, StateCommentsPosted, r.State())
}

func TestTicketResult_FailKeepsError(t *testing.T) {
	r := NewTicketResult("1042")
	require.NoError(t, r.Advance(StateIssueCreated))

	boom := errors.New("boom")
	r.Fail(boom)

	assert.Equal(t, StateFailed, r.State())
	assert.Equal(t, StateIssueCreated, r.FailedAt())
	assert.Equal(t, boom, r.Err())
	assert.False(t, r.Succeeded())
	assert.Contains(t, r.Line(), "failed at ISSUE_CREATED")
}

func TestTicketResult_MarkSkipped(t *testing.T) {
	r := NewTicketResult("1042")
	r.MarkSkipped("PROJ-3")

	assert.True(t, r.Skipped())
	assert.Equal(t, "PROJ-3", r.IssueKey())
	assert.Equal(t, StateDone, r.State())
	assert.Equal(t, "ticket 1042: skipped, already migrated as PROJ-3", r.Line())
}

func TestTicketResult_WarningsAreIsolated(t *testing.T) {
	r := NewTicketResult("1042")
	r.AddWarning(errors.New("one"))
	r.AddWarning(nil)
	r.AddWarning(errors.New("two"))

	warnings := r.Warnings()
	require.Len(t, warnings, 2)

	warnings[0] = errors.New("mutated")
	assert.Equal(t, "one", r.Warnings()[0].Error())
}

func TestRunSummary_CountsAndRender(t *testing.T) {
	s := NewRunSummary("ab12cd34")

	ok := NewTicketResult("1")
	ok.SetIssueKey("PROJ-1")
	require.NoError(t, ok.Advance(StateDone))
	s.Add(ok)

	skipped := NewTicketResult("2")
	skipped.MarkSkipped("PROJ-0")
	s.Add(skipped)

	failed := NewTicketResult("3")
	failed.Fail(errors.New("boom"))
	s.Add(failed)

	warned := NewTicketResult("4")
	warned.SetIssueKey("PROJ-4")
	warned.AddWarning(errors.New("attachment lost"))
	require.NoError(t, warned.Advance(StateDone))
	s.Add(warned)

	assert.Equal(t, 4, s.Attempted())
	assert.Equal(t, 2, s.Succeeded())
	assert.Equal(t, 1, s.Skipped())
	assert.Equal(t, 1, s.Failed())

	rendered := s.Render()
	assert.Contains(t, rendered, "ticket 1: migrated as PROJ-1")
	assert.Contains(t, rendered, "ticket 2: skipped, already migrated as PROJ-0")
	assert.Contains(t, rendered, "ticket 3: failed at PENDING: boom")
	assert.Contains(t, rendered, "ticket 4: migrated as PROJ-4 with 1 warning(s)")
	assert.Contains(t, rendered, "run ab12cd34: 4 attempted, 2 succeeded, 1 skipped, 1 failed")
}
