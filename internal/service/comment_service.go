package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/repository"
	apperrors "github.com/civic-kit/complaint-service/pkg/util/errorutil"
)

// ViewMode selects which comments a caller may see.
type ViewMode string

const (
	ViewModePublic ViewMode = "public"
	ViewModeStaff  ViewMode = "staff"
)

// CommentService manages ticket comment threads.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	TicketRepo  repository.TicketRepository
	Dispatcher  events.Dispatcher
}

// CommentCreateInput describes a comment submission.
type CommentCreateInput struct {
	TicketID     int64
	ParentID     *int64
	AuthorName   string
	AuthorType   domain.CommentAuthorType
	AuthorAvatar *string
	Content      string
	IsPublic     bool
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// PostComment validates and persists a comment. The ticket must exist; a
// parent, when given, must be a comment on the same ticket.
func (s *CommentService) PostComment(ctx context.Context, input CommentCreateInput) (*domain.Comment, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}
	if strings.TrimSpace(input.AuthorName) == "" {
		return nil, apperrors.NewValidationError("author_name is required", nil)
	}

	if _, err := s.tickets.GetByID(ctx, input.TicketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": input.TicketID})
		}
		return nil, apperrors.MapError(err)
	}

	if input.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("parent comment does not exist",
					map[string]any{"parent_id": *input.ParentID})
			}
			return nil, apperrors.MapError(err)
		}
		if parent.TicketID != input.TicketID {
			return nil, apperrors.NewValidationError("parent comment belongs to a different ticket",
				map[string]any{"parent_id": *input.ParentID, "parent_ticket_id": parent.TicketID})
		}
	}

	comment := &domain.Comment{
		TicketID:     input.TicketID,
		ParentID:     input.ParentID,
		AuthorName:   strings.TrimSpace(input.AuthorName),
		AuthorType:   input.AuthorType,
		AuthorAvatar: input.AuthorAvatar,
		Content:      strings.TrimSpace(input.Content),
		IsPublic:     input.IsPublic,
	}
	if comment.AuthorType == "" {
		comment.AuthorType = domain.CommentAuthorCitizen
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: comment.TicketID,
		Actor:    events.Actor{Kind: actorKindFor(comment.AuthorType)},
		Payload: events.CommentAddedPayload{
			CommentID:  comment.ID,
			ParentID:   comment.ParentID,
			AuthorType: comment.AuthorType,
			IsPublic:   comment.IsPublic,
			Preview:    stringPreview(comment.Content, 120),
		},
	})
	return comment, nil
}

// ListComments returns a ticket's comments in creation order. Public view
// mode filters out internal notes; staff mode returns everything. Unknown
// modes fall back to public.
func (s *CommentService) ListComments(ctx context.Context, ticketID int64, mode ViewMode) ([]domain.Comment, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	publicOnly := mode != ViewModeStaff
	comments, err := s.comments.ListByTicket(ctx, ticketID, publicOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

func actorKindFor(authorType domain.CommentAuthorType) events.ActorKind {
	if authorType == domain.CommentAuthorCitizen {
		return events.ActorCitizen
	}
	return events.ActorAgent
}
