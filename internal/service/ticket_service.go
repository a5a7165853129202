package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/cache"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/repository"
	"github.com/civic-kit/complaint-service/internal/storage"
	apperrors "github.com/civic-kit/complaint-service/pkg/util/errorutil"
)

// TicketService coordinates ticket creation, lookup and image handling.
type TicketService struct {
	tickets    repository.TicketRepository
	files      storage.FileStore
	feed       *cache.TicketFeed
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	FileStore  storage.FileStore
	Feed       *cache.TicketFeed
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// Upload is an incoming image payload.
type Upload struct {
	FileName string
	Content  io.Reader
}

// TicketCreateInput describes a citizen submission.
type TicketCreateInput struct {
	IssuerIDNumber string
	IssuerFullName string
	IssuerPhone    string
	IssuerLocation string
	ModuleID       int64
	Category       string
	Title          string
	Description    string
	Uploads        []Upload
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		files:      deps.FileStore,
		feed:       deps.Feed,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateTicket validates a submission, stores any image payloads and
// persists the ticket in the Received state with no owning agent.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.IssuerIDNumber) == "" || strings.TrimSpace(input.IssuerFullName) == "" {
		return nil, apperrors.NewValidationError("issuer_id_number and issuer_full_name are required", nil)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("ticket_title is required", nil)
	}

	uris, err := s.storeUploads(ctx, input.Uploads)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		IssuerIDNumber: strings.TrimSpace(input.IssuerIDNumber),
		IssuerFullName: strings.TrimSpace(input.IssuerFullName),
		IssuerPhone:    strings.TrimSpace(input.IssuerPhone),
		IssuerLocation: strings.TrimSpace(input.IssuerLocation),
		ModuleID:       input.ModuleID,
		Category:       strings.TrimSpace(input.Category),
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Images:         uris,
		Status:         domain.TicketStatusReceived,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.feed.Invalidate(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{Kind: events.ActorCitizen},
		Payload: events.TicketCreatedPayload{
			ModuleID:       ticket.ModuleID,
			Title:          ticket.Title,
			IssuerIDNumber: ticket.IssuerIDNumber,
			ImageCount:     len(ticket.Images),
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ListTickets returns the full feed, served from cache when fresh.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	if tickets, ok := s.feed.Get(ctx); ok {
		return tickets, nil
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.feed.Set(ctx, tickets)
	return tickets, nil
}

// ListTicketsByIssuer returns a submitter's tickets. An empty result is a
// valid empty list, never an error.
func (s *TicketService) ListTicketsByIssuer(ctx context.Context, issuerIDNumber string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{IssuerIDNumber: &issuerIDNumber})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListTicketsByModule returns tickets filed under a module id.
func (s *TicketService) ListTicketsByModule(ctx context.Context, moduleID int64) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{ModuleID: &moduleID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListTicketsByModuleName returns tickets filed under a module, matched
// case-insensitively by name.
func (s *TicketService) ListTicketsByModuleName(ctx context.Context, moduleName string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByModuleName(ctx, moduleName)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// AddImages stores the payloads and appends their URIs to the ticket's
// image list. The append is a single atomic array operation.
func (s *TicketService) AddImages(ctx context.Context, id int64, uploads []Upload) (*domain.Ticket, error) {
	if len(uploads) == 0 {
		return nil, apperrors.NewValidationError("no image payloads provided", nil)
	}
	if _, err := s.GetTicket(ctx, id); err != nil {
		return nil, err
	}
	uris, err := s.storeUploads(ctx, uploads)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket, err := s.tickets.AppendImages(ctx, id, uris)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	s.feed.Invalidate(ctx)
	return ticket, nil
}

// RemoveImage drops one URI from the ticket's image list, then requests
// deletion of the stored file. A failed physical delete is logged and does
// not roll back the metadata removal.
func (s *TicketService) RemoveImage(ctx context.Context, id int64, uri string) (*domain.Ticket, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, apperrors.NewValidationError("imageUrl is required", nil)
	}
	ticket, err := s.tickets.RemoveImage(ctx, id, uri)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.files.Delete(ctx, uri); err != nil {
		s.logger.Warn("failed to delete stored image",
			zap.Int64("ticket_id", id),
			zap.String("uri", uri),
			zap.Error(err))
	}
	s.feed.Invalidate(ctx)
	return ticket, nil
}

// Upvote increments the ticket's upvote counter.
func (s *TicketService) Upvote(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.vote(ctx, id, true)
}

// Downvote increments the ticket's downvote counter.
func (s *TicketService) Downvote(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.vote(ctx, id, false)
}

func (s *TicketService) vote(ctx context.Context, id int64, upvote bool) (*domain.Ticket, error) {
	ticket, err := s.tickets.IncrementVote(ctx, id, upvote)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	s.feed.Invalidate(ctx)
	return ticket, nil
}

func (s *TicketService) storeUploads(ctx context.Context, uploads []Upload) ([]string, error) {
	uris := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		uri, err := s.files.Save(ctx, upload.FileName, upload.Content)
		if err != nil {
			return nil, err
		}
		uris = append(uris, uri)
	}
	return uris, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, event)
}
