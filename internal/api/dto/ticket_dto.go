package dto

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// TicketResponse is the canonical wire form of a ticket. Historical field
// name variants (title vs ticket_title) are resolved here, once.
type TicketResponse struct {
	ID             int64      `json:"ticket_id"`
	IssuerIDNumber string     `json:"issuer_id_number"`
	IssuerFullName string     `json:"issuer_full_name"`
	IssuerPhone    string     `json:"issuer_phone_number"`
	IssuerLocation string     `json:"issuer_location"`
	ModuleID       int64      `json:"ticket_module"`
	Category       string     `json:"ticket_category"`
	Title          string     `json:"ticket_title"`
	Description    string     `json:"ticket_description"`
	Images         []string   `json:"images"`
	Status         string     `json:"ticket_status"`
	AgentID        *int64     `json:"agent_id"`
	Upvotes        int        `json:"upvotes"`
	Downvotes      int        `json:"downvotes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket onto the wire form.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	images := ticket.Images
	if images == nil {
		images = []string{}
	}
	return TicketResponse{
		ID:             ticket.ID,
		IssuerIDNumber: ticket.IssuerIDNumber,
		IssuerFullName: ticket.IssuerFullName,
		IssuerPhone:    ticket.IssuerPhone,
		IssuerLocation: ticket.IssuerLocation,
		ModuleID:       ticket.ModuleID,
		Category:       ticket.Category,
		Title:          ticket.Title,
		Description:    ticket.Description,
		Images:         images,
		Status:         string(ticket.Status),
		AgentID:        ticket.AgentID,
		Upvotes:        ticket.Upvotes,
		Downvotes:      ticket.Downvotes,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

// NewTicketResponses maps a slice of tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID int64 `json:"assigneeId"`
}

// SetStatusRequest payload.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// TransferTicketRequest payload.
type TransferTicketRequest struct {
	TransferType string `json:"transferType"`
	Destination  string `json:"destination"`
	Note         string `json:"note"`
}

// TransferResponse is the wire form of a transfer audit record.
type TransferResponse struct {
	ID              int64     `json:"transfer_id"`
	TicketID        int64     `json:"ticket_id"`
	DestinationType string    `json:"transferType"`
	Destination     string    `json:"destination"`
	Note            string    `json:"note"`
	RequestedBy     int64     `json:"requested_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewTransferResponses maps transfer records.
func NewTransferResponses(records []domain.TransferRecord) []TransferResponse {
	items := make([]TransferResponse, 0, len(records))
	for _, record := range records {
		items = append(items, TransferResponse{
			ID:              record.ID,
			TicketID:        record.TicketID,
			DestinationType: string(record.DestinationType),
			Destination:     record.Destination,
			Note:            record.Note,
			RequestedBy:     record.RequestedBy,
			CreatedAt:       record.CreatedAt,
		})
	}
	return items
}

// RemoveImageRequest payload.
type RemoveImageRequest struct {
	ImageURL string `json:"imageUrl"`
}
