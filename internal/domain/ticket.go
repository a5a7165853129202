package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusReceived   TicketStatus = "Received"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// IsValid reports whether the status belongs to the closed vocabulary.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusReceived, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

// Ticket is the aggregate for citizen complaints.
type Ticket struct {
	ID             int64
	IssuerIDNumber string
	IssuerFullName string
	IssuerPhone    string
	IssuerLocation string
	ModuleID       int64
	Category       string
	Title          string
	Description    string
	Images         []string
	Status         TicketStatus
	AgentID        *int64
	Upvotes        int
	Downvotes      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Assigned reports whether an agent currently owns the ticket.
func (t *Ticket) Assigned() bool {
	return t.AgentID != nil
}
