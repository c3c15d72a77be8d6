package migration

import "tixport/internal/domain/ticket"

// IssueCreatePayload is everything needed to create the destination issue.
type IssueCreatePayload struct {
	Summary     string
	Description string
	Labels      []string
}

// CommentPayload is one rendered comment, in thread order. Internal notes
// are already wrapped in their restricted-visibility panel markup.
type CommentPayload struct {
	Body string
}

// ComposedIssue is the output of composition: the creation payload, the
// ordered comments, and the inline attachment refs discovered in bodies.
// InlineNames maps attachment names to the original external URL so failed
// uploads can be degraded back to links.
type ComposedIssue struct {
	Create      IssueCreatePayload
	Comments    []CommentPayload
	InlineRefs  []ticket.AttachmentRef
	InlineNames map[string]string
}
