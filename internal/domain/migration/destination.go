package migration

import (
	"context"
	"io"
	"time"
)

// Destination is the call surface the orchestrator needs on the target issue
// tracker. Implementations return typed errors for expected rejections and
// an AuthFailure for credential problems, which aborts the run.
type Destination interface {
	// FindIssueByLabel is the idempotence lookup: it reports whether an
	// issue already carries the given source-ticket label.
	FindIssueByLabel(ctx context.Context, label string) (issueKey string, found bool, err error)

	CreateIssue(ctx context.Context, payload IssueCreatePayload) (issueKey string, err error)

	AddComment(ctx context.Context, issueKey, body string) (commentID string, err error)

	UpdateComment(ctx context.Context, issueKey, commentID, body string) error

	UpdateDescription(ctx context.Context, issueKey, description string) error

	UploadAttachment(ctx context.Context, issueKey, filename string, content io.Reader) error

	UpdatePriority(ctx context.Context, issueKey, label string) error

	Transition(ctx context.Context, issueKey, transitionID string) error

	// DiscoverDoneTransition finds a transition whose target status category
	// is done, for when no transition ID is configured.
	DiscoverDoneTransition(ctx context.Context, issueKey string) (transitionID string, err error)

	SetTimestamps(ctx context.Context, issueKey string, created, updated time.Time) error
}
