package ticket

import (
	"fmt"
	"sort"
	"time"
)

// Ticket is a read-only snapshot of a source helpdesk ticket. The source
// store is never mutated by this tool; tickets are reconstructed from
// persistence and stay immutable for the rest of the run.
type Ticket struct {
	id            uint
	number        string
	subject       string
	priorityCode  int
	statusID      int
	submitterName string
	createdAt     time.Time
	messages      []*Message
}

func ReconstructTicket(
	id uint,
	number string,
	subject string,
	priorityCode int,
	statusID int,
	submitterName string,
	createdAt time.Time,
	messages []*Message,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if len(number) == 0 {
		return nil, fmt.Errorf("ticket number is required")
	}
	if createdAt.IsZero() {
		return nil, fmt.Errorf("ticket creation time is required")
	}
	if submitterName == "" {
		submitterName = "Unknown User"
	}
	if subject == "" {
		subject = fmt.Sprintf("Ticket %s", number)
	}

	ms := make([]*Message, len(messages))
	copy(ms, messages)
	// Messages must be processed in nondecreasing creation-timestamp order.
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].CreatedAt().Before(ms[j].CreatedAt())
	})

	return &Ticket{
		id:            id,
		number:        number,
		subject:       subject,
		priorityCode:  priorityCode,
		statusID:      statusID,
		submitterName: submitterName,
		createdAt:     createdAt,
		messages:      ms,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) Number() string {
	return t.number
}

func (t *Ticket) Subject() string {
	return t.subject
}

func (t *Ticket) PriorityCode() int {
	return t.priorityCode
}

func (t *Ticket) StatusID() int {
	return t.statusID
}

func (t *Ticket) SubmitterName() string {
	return t.submitterName
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

// Messages returns the ticket's messages in creation order.
func (t *Ticket) Messages() []*Message {
	messagesCopy := make([]*Message, len(t.messages))
	copy(messagesCopy, t.messages)
	return messagesCopy
}
