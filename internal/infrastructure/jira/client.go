// Package jira is the thin call surface over the destination issue tracker's
// REST API. Every method returns a typed error for expected rejections;
// authentication failures are run-fatal and surface as AuthFailure.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"tixport/internal/shared/config"
	apperrors "tixport/internal/shared/errors"
)

type Client struct {
	baseURL    string
	username   string
	apiToken   string
	httpClient *http.Client
}

func NewClient(cfg *config.JiraConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateIssue creates an issue and returns its key.
func (c *Client) CreateIssue(ctx context.Context, fields IssueFields) (string, error) {
	var resp createIssueResponse
	err := c.doJSON(ctx, http.MethodPost, "/rest/api/2/issue", createIssueRequest{Fields: fields}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Key, nil
}

// AddComment appends a comment and returns its identifier for later edits.
func (c *Client) AddComment(ctx context.Context, issueKey, body string) (string, error) {
	var resp commentResponse
	path := fmt.Sprintf("/rest/api/2/issue/%s/comment", issueKey)
	if err := c.doJSON(ctx, http.MethodPost, path, commentRequest{Body: body}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// UpdateComment replaces the body of an existing comment.
func (c *Client) UpdateComment(ctx context.Context, issueKey, commentID, body string) error {
	path := fmt.Sprintf("/rest/api/2/issue/%s/comment/%s", issueKey, commentID)
	return c.doJSON(ctx, http.MethodPut, path, commentRequest{Body: body}, nil)
}

// UpdateDescription replaces the issue description.
func (c *Client) UpdateDescription(ctx context.Context, issueKey, description string) error {
	path := fmt.Sprintf("/rest/api/2/issue/%s", issueKey)
	return c.doJSON(ctx, http.MethodPut, path, updateIssueRequest{
		Fields: map[string]interface{}{"description": description},
	}, nil)
}

// UpdatePriority sets the issue priority by label.
func (c *Client) UpdatePriority(ctx context.Context, issueKey, label string) error {
	path := fmt.Sprintf("/rest/api/2/issue/%s", issueKey)
	return c.doJSON(ctx, http.MethodPut, path, updateIssueRequest{
		Fields: map[string]interface{}{"priority": PriorityRef{Name: label}},
	}, nil)
}

// SetTimestamps overwrites the issue's created/updated timestamps. Most Jira
// instances reject this for non-admin callers; the caller treats failure as
// best-effort.
func (c *Client) SetTimestamps(ctx context.Context, issueKey string, created, updated time.Time) error {
	const jiraTimeLayout = "2006-01-02T15:04:05.000-0700"
	path := fmt.Sprintf("/rest/api/2/issue/%s?notifyUsers=false", issueKey)
	return c.doJSON(ctx, http.MethodPut, path, updateIssueRequest{
		Fields: map[string]interface{}{
			"created": created.Format(jiraTimeLayout),
			"updated": updated.Format(jiraTimeLayout),
		},
	}, nil)
}

// Transition moves the issue through the named workflow transition.
func (c *Client) Transition(ctx context.Context, issueKey, transitionID string) error {
	path := fmt.Sprintf("/rest/api/2/issue/%s/transitions", issueKey)
	return c.doJSON(ctx, http.MethodPost, path, transitionRequest{
		Transition: transitionRef{ID: transitionID},
	}, nil)
}

// ListTransitions returns the transitions currently available on an issue.
func (c *Client) ListTransitions(ctx context.Context, issueKey string) ([]Transition, error) {
	var resp transitionsResponse
	path := fmt.Sprintf("/rest/api/2/issue/%s/transitions", issueKey)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transitions, nil
}

// DiscoverDoneTransition picks the first transition whose target status
// category is "done". Used when no transition ID is configured.
func (c *Client) DiscoverDoneTransition(ctx context.Context, issueKey string) (string, error) {
	transitions, err := c.ListTransitions(ctx, issueKey)
	if err != nil {
		return "", err
	}
	for _, tr := range transitions {
		if tr.To.StatusCategory.Key == "done" {
			return tr.ID, nil
		}
	}
	return "", fmt.Errorf("no transition to a done status category found")
}

// FindIssueByLabel searches for an existing issue carrying the given label
// within a project. It is the idempotence lookup: at most one issue is
// expected per source ticket label.
func (c *Client) FindIssueByLabel(ctx context.Context, project, label string) (string, bool, error) {
	jql := fmt.Sprintf("project = %q AND labels = %q", project, label)
	path := "/rest/api/2/search?maxResults=1&fields=key&jql=" + url.QueryEscape(jql)

	var resp searchResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", false, err
	}
	if resp.Total == 0 || len(resp.Issues) == 0 {
		return "", false, nil
	}
	return resp.Issues[0].Key, true, nil
}

// UploadAttachment uploads one file to an issue via multipart form.
func (c *Client) UploadAttachment(ctx context.Context, issueKey, filename string, content io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read attachment content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	path := fmt.Sprintf("/rest/api/2/issue/%s/attachments", issueKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Atlassian-Token", "no-check")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("attachment upload failed: %w", err)
	}
	defer resp.Body.Close()

	return c.checkStatus(resp)
}

// doJSON performs a JSON request with a single retry on transient failures.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	operation := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.SetBasicAuth(c.username, c.apiToken)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if err := c.checkStatus(resp); err != nil {
			if isTransient(resp.StatusCode) {
				return err
			}
			return backoff.Permanent(err)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), 1),
		ctx,
	)
	return backoff.Retry(operation, policy)
}

// checkStatus converts non-2xx responses into errors. Auth rejections abort
// the whole run: no subsequent call can succeed.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := readErrorDetail(resp.Body)
	err := fmt.Errorf("%s %s: status %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, detail)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return backoff.Permanent(apperrors.NewAuthFailure("destination rejected credentials", err))
	}
	return err
}

func isTransient(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "no error detail"
	}
	var parsed errorResponse
	if err := json.Unmarshal(data, &parsed); err == nil && len(parsed.ErrorMessages) > 0 {
		return strings.Join(parsed.ErrorMessages, "; ")
	}
	return string(data)
}
