package ticket

import (
	"fmt"
	"time"

	vo "tixport/internal/domain/ticket/valueobjects"
)

// Message is one post within a ticket thread. The body is raw HTML as stored
// by the source system; rendering happens at composition time.
type Message struct {
	id         uint
	ticketID   uint
	authorName string
	body       string
	visibility vo.Visibility
	createdAt  time.Time
}

func ReconstructMessage(
	id uint,
	ticketID uint,
	authorName string,
	body string,
	visibility vo.Visibility,
	createdAt time.Time,
) (*Message, error) {
	if id == 0 {
		return nil, fmt.Errorf("message ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if createdAt.IsZero() {
		return nil, fmt.Errorf("message creation time is required")
	}
	if authorName == "" {
		authorName = "Unknown"
	}

	return &Message{
		id:         id,
		ticketID:   ticketID,
		authorName: authorName,
		body:       body,
		visibility: visibility,
		createdAt:  createdAt,
	}, nil
}

func (m *Message) ID() uint {
	return m.id
}

func (m *Message) TicketID() uint {
	return m.ticketID
}

func (m *Message) AuthorName() string {
	return m.authorName
}

func (m *Message) Body() string {
	return m.body
}

func (m *Message) Visibility() vo.Visibility {
	return m.visibility
}

// IsInternal reports whether the message is an internal note that must never
// be shown to end customers.
func (m *Message) IsInternal() bool {
	return m.visibility.IsInternal()
}

func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}
