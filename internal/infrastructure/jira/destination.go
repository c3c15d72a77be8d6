package jira

import (
	"context"
	"io"
	"time"

	"tixport/internal/domain/migration"
	"tixport/internal/shared/config"
)

// Destination adapts Client to the orchestrator's destination port, binding
// the configured project and issue type.
type Destination struct {
	client    *Client
	project   string
	issueType string
}

func NewDestination(client *Client, cfg *config.JiraConfig) *Destination {
	return &Destination{
		client:    client,
		project:   cfg.Project,
		issueType: cfg.IssueType,
	}
}

func (d *Destination) FindIssueByLabel(ctx context.Context, label string) (string, bool, error) {
	return d.client.FindIssueByLabel(ctx, d.project, label)
}

func (d *Destination) CreateIssue(ctx context.Context, payload migration.IssueCreatePayload) (string, error) {
	return d.client.CreateIssue(ctx, IssueFields{
		Project:     ProjectRef{Key: d.project},
		Summary:     payload.Summary,
		Description: payload.Description,
		IssueType:   IssueTypeRef{Name: d.issueType},
		Labels:      payload.Labels,
	})
}

func (d *Destination) AddComment(ctx context.Context, issueKey, body string) (string, error) {
	return d.client.AddComment(ctx, issueKey, body)
}

func (d *Destination) UpdateComment(ctx context.Context, issueKey, commentID, body string) error {
	return d.client.UpdateComment(ctx, issueKey, commentID, body)
}

func (d *Destination) UpdateDescription(ctx context.Context, issueKey, description string) error {
	return d.client.UpdateDescription(ctx, issueKey, description)
}

func (d *Destination) UploadAttachment(ctx context.Context, issueKey, filename string, content io.Reader) error {
	return d.client.UploadAttachment(ctx, issueKey, filename, content)
}

func (d *Destination) UpdatePriority(ctx context.Context, issueKey, label string) error {
	return d.client.UpdatePriority(ctx, issueKey, label)
}

func (d *Destination) Transition(ctx context.Context, issueKey, transitionID string) error {
	return d.client.Transition(ctx, issueKey, transitionID)
}

func (d *Destination) DiscoverDoneTransition(ctx context.Context, issueKey string) (string, error) {
	return d.client.DiscoverDoneTransition(ctx, issueKey)
}

func (d *Destination) SetTimestamps(ctx context.Context, issueKey string, created, updated time.Time) error {
	return d.client.SetTimestamps(ctx, issueKey, created, updated)
}
