package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/service"
	apperrors "github.com/civic-kit/complaint-service/pkg/util/errorutil"
)

// AgentsHandler manages agent authentication endpoints.
type AgentsHandler struct {
	auth *service.AuthService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(authService *service.AuthService) *AgentsHandler {
	return &AgentsHandler{auth: authService}
}

// Login POST /agents/login.
func (h *AgentsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User: dto.AgentResponse{
			ID:         result.Agent.ID,
			FullName:   result.Agent.FullName,
			Email:      result.Agent.Email,
			CanSupport: result.Agent.CanSupport,
		},
	})
}
