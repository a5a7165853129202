package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/service"
	apperrors "github.com/civic-kit/complaint-service/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	workflow *service.WorkflowService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, workflow *service.WorkflowService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, workflow: workflow}
}

// Create POST /tickets (multipart).
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	moduleID, err := parseOptionalInt64(c.FormValue("ticket_module"))
	if err != nil {
		return apperrors.NewValidationError("ticket_module must be numeric", nil)
	}

	input := service.TicketCreateInput{
		IssuerIDNumber: c.FormValue("issuer_id_number"),
		IssuerFullName: c.FormValue("issuer_full_name"),
		IssuerPhone:    c.FormValue("issuer_phone_number"),
		IssuerLocation: c.FormValue("issuer_location"),
		ModuleID:       moduleID,
		Category:       c.FormValue("ticket_category"),
		Title:          c.FormValue("ticket_title"),
		Description:    c.FormValue("ticket_description"),
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		uploads, closeAll, err := uploadsFromForm(form, "media")
		if err != nil {
			return apperrors.NewValidationError("unreadable media payload", nil)
		}
		defer closeAll()
		input.Uploads = uploads
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListTickets(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// ListByUser GET /tickets/user/:userId. A submitter with no tickets gets an
// empty list, not a 404.
func (h *TicketsHandler) ListByUser(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Params("userId"))
	if userID == "" {
		return apperrors.NewValidationError("userId is required", nil)
	}
	tickets, err := h.tickets.ListTicketsByIssuer(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// ListByModule GET /tickets/module/:moduleId.
func (h *TicketsHandler) ListByModule(c *fiber.Ctx) error {
	moduleID, err := parseID(c, "moduleId")
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListTicketsByModule(c.Context(), moduleID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// Assign PUT /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID <= 0 {
		return apperrors.NewValidationError("assigneeId is required", nil)
	}
	ticket, err := h.workflow.Assign(c.Context(), id, req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Complete PUT /tickets/:id/complete.
func (h *TicketsHandler) Complete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.workflow.MarkResolved(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// SetStatus PUT /tickets/:id/status.
func (h *TicketsHandler) SetStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.workflow.SetStatus(c.Context(), id, domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Transfer POST /tickets/:id/transfer.
func (h *TicketsHandler) Transfer(c *fiber.Ctx) error {
	agent, ok := auth.AgentFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("agent authentication required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.TransferTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.workflow.Transfer(c.Context(), service.TransferInput{
		TicketID:        id,
		DestinationType: domain.TransferDestinationType(req.TransferType),
		Destination:     req.Destination,
		Note:            req.Note,
		RequestedBy:     agent.ID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTransferResponses([]domain.TransferRecord{*record})[0])
}

// ListTransfers GET /tickets/:id/transfers.
func (h *TicketsHandler) ListTransfers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	records, err := h.workflow.ListTransfers(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTransferResponses(records))
}

// AddImages POST /tickets/:id/images (multipart).
func (h *TicketsHandler) AddImages(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return apperrors.NewValidationError("multipart form with media files required", nil)
	}
	uploads, closeAll, err := uploadsFromForm(form, "media")
	if err != nil {
		return apperrors.NewValidationError("unreadable media payload", nil)
	}
	defer closeAll()

	ticket, err := h.tickets.AddImages(c.Context(), id, uploads)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// RemoveImage DELETE /tickets/:id/images.
func (h *TicketsHandler) RemoveImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.RemoveImageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.RemoveImage(c.Context(), id, req.ImageURL)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Upvote POST /tickets/:id/upvote.
func (h *TicketsHandler) Upvote(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Upvote(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Downvote POST /tickets/:id/downvote.
func (h *TicketsHandler) Downvote(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Downvote(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(param+" must be a positive integer", nil)
	}
	return id, nil
}

func parseOptionalInt64(val string) (int64, error) {
	if strings.TrimSpace(val) == "" {
		return 0, nil
	}
	return strconv.ParseInt(strings.TrimSpace(val), 10, 64)
}

func uploadsFromForm(form *multipart.Form, field string) ([]service.Upload, func(), error) {
	files := form.File[field]
	uploads := make([]service.Upload, 0, len(files))
	opened := make([]multipart.File, 0, len(files))
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		uploads = append(uploads, service.Upload{FileName: header.Filename, Content: f})
	}
	return uploads, closeAll, nil
}
