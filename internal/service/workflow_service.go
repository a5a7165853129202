package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/civic-kit/complaint-service/internal/cache"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/repository"
	apperrors "github.com/civic-kit/complaint-service/pkg/util/errorutil"
)

// WorkflowService drives the ticket lifecycle: assignment, status changes
// and the transfer audit trail.
type WorkflowService struct {
	tickets    repository.TicketRepository
	agents     repository.AgentRepository
	transfers  repository.TransferRepository
	feed       *cache.TicketFeed
	dispatcher events.Dispatcher
}

// WorkflowDependencies bundles collaborators for the workflow service.
type WorkflowDependencies struct {
	TicketRepo   repository.TicketRepository
	AgentRepo    repository.AgentRepository
	TransferRepo repository.TransferRepository
	Feed         *cache.TicketFeed
	Dispatcher   events.Dispatcher
}

// TransferInput describes a transfer request.
type TransferInput struct {
	TicketID        int64
	DestinationType domain.TransferDestinationType
	Destination     string
	Note            string
	RequestedBy     int64
}

// NewWorkflowService constructs the service.
func NewWorkflowService(deps WorkflowDependencies) *WorkflowService {
	return &WorkflowService{
		tickets:    deps.TicketRepo,
		agents:     deps.AgentRepo,
		transfers:  deps.TransferRepo,
		feed:       deps.Feed,
		dispatcher: deps.Dispatcher,
	}
}

// Assign gives the ticket to an agent and moves it to In Progress. Both
// fields change in one statement, so no caller can observe one without the
// other.
func (s *WorkflowService) Assign(ctx context.Context, ticketID, agentID int64) (*domain.Ticket, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return nil, apperrors.MapError(err)
	}
	if !agent.CanSupport {
		return nil, apperrors.NewValidationError("agent is not eligible to be assigned tickets",
			map[string]any{"agent_id": agentID})
	}

	ticket, err := s.tickets.SetAssignment(ctx, ticketID, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	s.feed.Invalidate(ctx)
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    agentActor(agentID),
		Payload:  events.TicketAssignedPayload{AgentID: agentID},
	})
	return ticket, nil
}

// MarkResolved moves the ticket to its terminal state. Calling it on an
// already resolved ticket is a no-op success.
func (s *WorkflowService) MarkResolved(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	return s.SetStatus(ctx, ticketID, domain.TicketStatusResolved)
}

// SetStatus applies a status from the closed vocabulary.
func (s *WorkflowService) SetStatus(ctx context.Context, ticketID int64, status domain.TicketStatus) (*domain.Ticket, error) {
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("unknown ticket status",
			map[string]any{"status": string(status)})
	}
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if current.Status == status {
		return current, nil
	}

	ticket, err := s.tickets.SetStatus(ctx, ticketID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	s.feed.Invalidate(ctx)
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    events.Actor{Kind: events.ActorAgent},
		Payload: events.TicketStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: status,
		},
	})
	return ticket, nil
}

// Transfer records an auditable transfer request. It deliberately does not
// reassign the ticket; ownership only changes through Assign.
func (s *WorkflowService) Transfer(ctx context.Context, input TransferInput) (*domain.TransferRecord, error) {
	if !input.DestinationType.IsValid() {
		return nil, apperrors.NewValidationError("transferType must be department or agent",
			map[string]any{"transfer_type": string(input.DestinationType)})
	}
	if strings.TrimSpace(input.Destination) == "" {
		return nil, apperrors.NewValidationError("destination is required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, input.TicketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": input.TicketID})
		}
		return nil, apperrors.MapError(err)
	}

	record := &domain.TransferRecord{
		TicketID:        input.TicketID,
		DestinationType: input.DestinationType,
		Destination:     strings.TrimSpace(input.Destination),
		Note:            strings.TrimSpace(input.Note),
		RequestedBy:     input.RequestedBy,
	}
	if err := s.transfers.Create(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketTransferRequested,
		TicketID: record.TicketID,
		Actor:    agentActor(record.RequestedBy),
		Payload: events.TicketTransferRequestedPayload{
			DestinationType: record.DestinationType,
			Destination:     record.Destination,
			Note:            record.Note,
		},
	})
	return record, nil
}

// ListTransfers returns a ticket's transfer audit trail in request order.
func (s *WorkflowService) ListTransfers(ctx context.Context, ticketID int64) ([]domain.TransferRecord, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	records, err := s.transfers.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}
