package ticket

import "context"

// SourceRepository reads tickets from the source helpdesk store. All methods
// are read-only; a connection or query failure is a run-fatal condition and
// surfaces as a SourceUnavailable error.
type SourceRepository interface {
	// ListTicketIDs returns the identifiers of all tickets, ordered by ID.
	ListTicketIDs(ctx context.Context) ([]uint, error)

	// GetByID loads one ticket with its messages in creation order.
	GetByID(ctx context.Context, id uint) (*Ticket, error)

	// GetByNumber loads one ticket by its public number.
	GetByNumber(ctx context.Context, number string) (*Ticket, error)

	// GetStoredAttachments returns the stored-attachment refs for a ticket.
	GetStoredAttachments(ctx context.Context, ticketID uint) ([]AttachmentRef, error)
}
