package migration

import (
	"context"
	"io"
	"time"

	dm "tixport/internal/domain/migration"
	"tixport/internal/domain/ticket"
	"tixport/internal/shared/logger"
)

type mockSourceRepository struct {
	ListTicketIDsFunc        func(ctx context.Context) ([]uint, error)
	GetByIDFunc              func(ctx context.Context, id uint) (*ticket.Ticket, error)
	GetByNumberFunc          func(ctx context.Context, number string) (*ticket.Ticket, error)
	GetStoredAttachmentsFunc func(ctx context.Context, ticketID uint) ([]ticket.AttachmentRef, error)
}

func (m *mockSourceRepository) ListTicketIDs(ctx context.Context) ([]uint, error) {
	if m.ListTicketIDsFunc != nil {
		return m.ListTicketIDsFunc(ctx)
	}
	return nil, nil
}

func (m *mockSourceRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSourceRepository) GetByNumber(ctx context.Context, number string) (*ticket.Ticket, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	return nil, nil
}

func (m *mockSourceRepository) GetStoredAttachments(ctx context.Context, ticketID uint) ([]ticket.AttachmentRef, error) {
	if m.GetStoredAttachmentsFunc != nil {
		return m.GetStoredAttachmentsFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockDestination struct {
	FindIssueByLabelFunc       func(ctx context.Context, label string) (string, bool, error)
	CreateIssueFunc            func(ctx context.Context, payload dm.IssueCreatePayload) (string, error)
	AddCommentFunc             func(ctx context.Context, issueKey, body string) (string, error)
	UpdateCommentFunc          func(ctx context.Context, issueKey, commentID, body string) error
	UpdateDescriptionFunc      func(ctx context.Context, issueKey, description string) error
	UploadAttachmentFunc       func(ctx context.Context, issueKey, filename string, content io.Reader) error
	UpdatePriorityFunc         func(ctx context.Context, issueKey, label string) error
	TransitionFunc             func(ctx context.Context, issueKey, transitionID string) error
	DiscoverDoneTransitionFunc func(ctx context.Context, issueKey string) (string, error)
	SetTimestampsFunc          func(ctx context.Context, issueKey string, created, updated time.Time) error
}

func (m *mockDestination) FindIssueByLabel(ctx context.Context, label string) (string, bool, error) {
	if m.FindIssueByLabelFunc != nil {
		return m.FindIssueByLabelFunc(ctx, label)
	}
	return "", false, nil
}

func (m *mockDestination) CreateIssue(ctx context.Context, payload dm.IssueCreatePayload) (string, error) {
	if m.CreateIssueFunc != nil {
		return m.CreateIssueFunc(ctx, payload)
	}
	return "PROJ-1", nil
}

func (m *mockDestination) AddComment(ctx context.Context, issueKey, body string) (string, error) {
	if m.AddCommentFunc != nil {
		return m.AddCommentFunc(ctx, issueKey, body)
	}
	return "10001", nil
}

func (m *mockDestination) UpdateComment(ctx context.Context, issueKey, commentID, body string) error {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(ctx, issueKey, commentID, body)
	}
	return nil
}

func (m *mockDestination) UpdateDescription(ctx context.Context, issueKey, description string) error {
	if m.UpdateDescriptionFunc != nil {
		return m.UpdateDescriptionFunc(ctx, issueKey, description)
	}
	return nil
}

func (m *mockDestination) UploadAttachment(ctx context.Context, issueKey, filename string, content io.Reader) error {
	if m.UploadAttachmentFunc != nil {
		return m.UploadAttachmentFunc(ctx, issueKey, filename, content)
	}
	return nil
}

func (m *mockDestination) UpdatePriority(ctx context.Context, issueKey, label string) error {
	if m.UpdatePriorityFunc != nil {
		return m.UpdatePriorityFunc(ctx, issueKey, label)
	}
	return nil
}

func (m *mockDestination) Transition(ctx context.Context, issueKey, transitionID string) error {
	if m.TransitionFunc != nil {
		return m.TransitionFunc(ctx, issueKey, transitionID)
	}
	return nil
}

func (m *mockDestination) DiscoverDoneTransition(ctx context.Context, issueKey string) (string, error) {
	if m.DiscoverDoneTransitionFunc != nil {
		return m.DiscoverDoneTransitionFunc(ctx, issueKey)
	}
	return "31", nil
}

func (m *mockDestination) SetTimestamps(ctx context.Context, issueKey string, created, updated time.Time) error {
	if m.SetTimestampsFunc != nil {
		return m.SetTimestampsFunc(ctx, issueKey, created, updated)
	}
	return nil
}

type mockTransfer struct {
	DownloadFunc func(remotePath, localPath string) error
}

func (m *mockTransfer) Download(remotePath, localPath string) error {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(remotePath, localPath)
	}
	return nil
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any) {}

func (m *mockLogger) Info(msg string, args ...any) {}

func (m *mockLogger) Warn(msg string, args ...any) {}

func (m *mockLogger) Error(msg string, args ...any) {}

func (m *mockLogger) With(args ...any) logger.Interface { return m }

func (m *mockLogger) Named(name string) logger.Interface { return m }

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}

func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {}

func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) {}

func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
