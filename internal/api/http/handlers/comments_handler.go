package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/service"
	apperrors "github.com/civic-kit/complaint-service/pkg/util/errorutil"
)

// CommentsHandler manages ticket comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// Create POST /comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID <= 0 {
		return apperrors.NewValidationError("ticket_id is required", nil)
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	comment, err := h.comments.PostComment(c.Context(), service.CommentCreateInput{
		TicketID:     req.TicketID,
		ParentID:     req.ParentID,
		AuthorName:   req.AuthorName,
		AuthorType:   domain.CommentAuthorType(req.AuthorType),
		AuthorAvatar: req.AuthorAvatar,
		Content:      req.Content,
		IsPublic:     isPublic,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewCommentResponse(comment))
}

// ListForTicket GET /comments/tickets/:id?viewMode=public|staff[&format=thread].
// Staff view mode requires an authenticated agent; anyone else is silently
// served the public view.
func (h *CommentsHandler) ListForTicket(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	mode := service.ViewModePublic
	if c.Query("viewMode") == string(service.ViewModeStaff) {
		if _, ok := auth.AgentFromContext(c); ok {
			mode = service.ViewModeStaff
		}
	}

	comments, err := h.comments.ListComments(c.Context(), id, mode)
	if err != nil {
		return err
	}

	if c.Query("format") == "thread" {
		return c.JSON(dto.NewThreadResponse(domain.OrganizeThread(comments)))
	}
	return c.JSON(dto.NewCommentResponses(comments))
}
