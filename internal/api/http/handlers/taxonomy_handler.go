package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/service"
	apperrors "github.com/civic-kit/complaint-service/pkg/util/errorutil"
)

// TaxonomyHandler manages module and category endpoints.
type TaxonomyHandler struct {
	taxonomy *service.TaxonomyService
	tickets  *service.TicketService
}

// NewTaxonomyHandler constructs handler.
func NewTaxonomyHandler(taxonomy *service.TaxonomyService, tickets *service.TicketService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy, tickets: tickets}
}

// CreateModule POST /modules.
func (h *TaxonomyHandler) CreateModule(c *fiber.Ctx) error {
	var req dto.CreateModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	module, err := h.taxonomy.CreateModule(c.Context(), req.ModuleName)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewModuleResponse(module))
}

// ListModules GET /modules.
func (h *TaxonomyHandler) ListModules(c *fiber.Ctx) error {
	modules, err := h.taxonomy.ListModules(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewModuleResponses(modules))
}

// CreateCategory POST /categories.
func (h *TaxonomyHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.taxonomy.CreateCategory(c.Context(), req.CategoryTitle, req.ModuleID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewCategoryResponse(category))
}

// ListCategories GET /categories.
func (h *TaxonomyHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.taxonomy.ListCategories(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCategoryResponses(categories))
}

// ListCategoriesByModule GET /categories/id/:moduleId.
func (h *TaxonomyHandler) ListCategoriesByModule(c *fiber.Ctx) error {
	moduleID, err := parseID(c, "moduleId")
	if err != nil {
		return err
	}
	categories, err := h.taxonomy.ListCategoriesByModule(c.Context(), moduleID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCategoryResponses(categories))
}

// ListCategoriesByModuleName GET /categories/module/:moduleName.
func (h *TaxonomyHandler) ListCategoriesByModuleName(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("moduleName"))
	if name == "" {
		return apperrors.NewValidationError("moduleName is required", nil)
	}
	categories, err := h.taxonomy.ListCategoriesByModuleName(c.Context(), name)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCategoryResponses(categories))
}

// ListTicketsByModuleName GET /tickets/module/name/:moduleName.
func (h *TaxonomyHandler) ListTicketsByModuleName(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("moduleName"))
	if name == "" {
		return apperrors.NewValidationError("moduleName is required", nil)
	}
	tickets, err := h.tickets.ListTicketsByModuleName(c.Context(), name)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}
