package migration

import (
	"fmt"
	"strings"
)

// RunSummary accumulates per-ticket results for one invocation. It lives only
// for the process lifetime and is rendered to the operator at run end.
type RunSummary struct {
	runID   string
	results []*TicketResult
}

func NewRunSummary(runID string) *RunSummary {
	return &RunSummary{runID: runID}
}

func (s *RunSummary) RunID() string {
	return s.runID
}

func (s *RunSummary) Add(result *TicketResult) {
	s.results = append(s.results, result)
}

// Results returns per-ticket results in processing order.
func (s *RunSummary) Results() []*TicketResult {
	resultsCopy := make([]*TicketResult, len(s.results))
	copy(resultsCopy, s.results)
	return resultsCopy
}

func (s *RunSummary) Attempted() int {
	return len(s.results)
}

func (s *RunSummary) Succeeded() int {
	n := 0
	for _, r := range s.results {
		if r.Succeeded() && !r.Skipped() {
			n++
		}
	}
	return n
}

func (s *RunSummary) Skipped() int {
	n := 0
	for _, r := range s.results {
		if r.Skipped() {
			n++
		}
	}
	return n
}

func (s *RunSummary) Failed() int {
	n := 0
	for _, r := range s.results {
		if r.Err() != nil {
			n++
		}
	}
	return n
}

// Render produces the operator-facing report: one line per ticket in
// processing order, then the aggregate counts.
func (s *RunSummary) Render() string {
	var b strings.Builder
	for _, r := range s.results {
		b.WriteString(r.Line())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "run %s: %d attempted, %d succeeded, %d skipped, %d failed\n",
		s.runID, s.Attempted(), s.Succeeded(), s.Skipped(), s.Failed())
	return b.String()
}
