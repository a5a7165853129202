package domain

import "time"

// TransferDestinationType distinguishes transfer targets.
type TransferDestinationType string

const (
	TransferToDepartment TransferDestinationType = "department"
	TransferToAgent      TransferDestinationType = "agent"
)

// IsValid reports whether the destination type is known.
func (t TransferDestinationType) IsValid() bool {
	return t == TransferToDepartment || t == TransferToAgent
}

// TransferRecord is an auditable transfer request. Recording one does not
// mutate the ticket's agent or status; reassignment stays an explicit
// assign operation.
type TransferRecord struct {
	ID              int64
	TicketID        int64
	DestinationType TransferDestinationType
	Destination     string
	Note            string
	RequestedBy     int64
	CreatedAt       time.Time
}
