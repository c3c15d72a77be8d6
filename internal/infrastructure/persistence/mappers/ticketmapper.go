package mappers

import (
	"strings"
	"time"

	"tixport/internal/domain/ticket"
	vo "tixport/internal/domain/ticket/valueobjects"
	"tixport/internal/infrastructure/persistence/models"
)

type TicketMapper struct{}

func NewTicketMapper() TicketMapper {
	return TicketMapper{}
}

// ToDomain reconstructs a ticket from its row, the submitter's user row (may
// be nil) and the message rows with their author user rows.
func (m TicketMapper) ToDomain(
	row *models.TicketModel,
	submitter *models.UserModel,
	messages []models.TicketMessageModel,
	authors map[uint]models.UserModel,
) (*ticket.Ticket, error) {
	domainMessages := make([]*ticket.Message, 0, len(messages))
	for _, msg := range messages {
		var author *models.UserModel
		if u, ok := authors[msg.UserID]; ok {
			author = &u
		}
		dm, err := ticket.ReconstructMessage(
			msg.ID,
			msg.TicketID,
			authorName(&msg, author),
			msg.Text,
			vo.VisibilityFromSourceType(msg.Type),
			time.Unix(msg.CreatedAt, 0).UTC(),
		)
		if err != nil {
			return nil, err
		}
		domainMessages = append(domainMessages, dm)
	}

	return ticket.ReconstructTicket(
		row.ID,
		row.Number,
		row.Subject,
		row.PriorityID,
		row.StatusID,
		displayName(submitter),
		time.Unix(row.CreatedAt, 0).UTC(),
		domainMessages,
	)
}

// ToStoredAttachment converts an attachment metadata row.
func (m TicketMapper) ToStoredAttachment(row *models.TicketAttachmentModel) (ticket.AttachmentRef, error) {
	name := row.OriginalName
	if name == "" {
		name = row.UploadHash
	}
	return ticket.NewStoredAttachment(name, row.UploadHash)
}

// displayName resolves a user's display name: trimmed "first last", then
// email, then empty (the entity substitutes its own fallback).
func displayName(u *models.UserModel) string {
	if u == nil {
		return ""
	}
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	return strings.TrimSpace(u.Email)
}

// authorName resolves a message author: user's display name, then the
// denormalized user_name column, then the user's email.
func authorName(msg *models.TicketMessageModel, u *models.UserModel) string {
	if u != nil {
		full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
		if full != "" {
			return full
		}
	}
	if name := strings.TrimSpace(msg.UserName); name != "" {
		return name
	}
	if u != nil {
		if email := strings.TrimSpace(u.Email); email != "" {
			return email
		}
	}
	return ""
}
