package events

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated           EventType = "ticket_created"
	EventTicketAssigned          EventType = "ticket_assigned"
	EventTicketStatusChanged     EventType = "ticket_status_changed"
	EventTicketTransferRequested EventType = "ticket_transfer_requested"
	EventCommentAdded            EventType = "comment_added"
)

// ActorKind identifies who triggered an event.
type ActorKind string

const (
	ActorCitizen ActorKind = "citizen"
	ActorAgent   ActorKind = "agent"
	ActorSystem  ActorKind = "system"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Kind    ActorKind `json:"kind"`
	AgentID *int64    `json:"agent_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ModuleID       int64  `json:"module_id"`
	Title          string `json:"title"`
	IssuerIDNumber string `json:"issuer_id_number"`
	ImageCount     int    `json:"image_count"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AgentID int64 `json:"agent_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketTransferRequestedPayload payload.
type TicketTransferRequestedPayload struct {
	DestinationType domain.TransferDestinationType `json:"destination_type"`
	Destination     string                         `json:"destination"`
	Note            string                         `json:"note,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID  int64                    `json:"comment_id"`
	ParentID   *int64                   `json:"parent_id,omitempty"`
	AuthorType domain.CommentAuthorType `json:"author_type"`
	IsPublic   bool                     `json:"is_public"`
	Preview    string                   `json:"preview"`
}
